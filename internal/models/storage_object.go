package models

// StorageObject tracks metadata for an object stored under an access-
// controlled path. Access to the key itself is decided by the storage
// policy, not by rows in this table.
type StorageObject struct {
	Base
	Key         string `gorm:"uniqueIndex;not null" json:"key"`
	OwnerID     string `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	Bucket      string `json:"bucket"`
}
