package services

import (
	"errors"

	"gorm.io/gorm"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/models"
)

// storageService decides storage path access and tracks object metadata.
// The bytes themselves live in the object store; this service answers
// whether a caller may touch a key and keeps the inventory row.
type storageService struct {
	db     *gorm.DB
	policy authz.StoragePolicy
	bucket string
}

// NewStorageService creates a new StorageServicer bound to a policy and
// bucket name.
func NewStorageService(db *gorm.DB, policy authz.StoragePolicy, bucket string) StorageServicer {
	return &storageService{db: db, policy: policy, bucket: bucket}
}

// Authorize checks a subject's permission on an object key against the path
// policy.
func (s *storageService) Authorize(sub authz.Subject, perm authz.Permission, key string) error {
	return s.policy.Authorize(sub, perm, key)
}

// RecordObject registers metadata for an object after a write-authorized
// upload.
func (s *storageService) RecordObject(sub authz.Subject, key string, size int64, contentType string) (*models.StorageObject, error) {
	if err := s.policy.Authorize(sub, authz.PermWrite, key); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Size cannot be negative")
	}

	obj := &models.StorageObject{
		Key:         key,
		OwnerID:     sub.UserID,
		Size:        size,
		ContentType: contentType,
		Bucket:      s.bucket,
	}
	if err := s.db.Create(obj).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return obj, nil
}

// GetObject returns metadata for a read-authorized key.
func (s *storageService) GetObject(sub authz.Subject, key string) (*models.StorageObject, error) {
	if err := s.policy.Authorize(sub, authz.PermRead, key); err != nil {
		return nil, err
	}
	return s.find(key)
}

// DeleteObject removes the metadata row for a delete-authorized key.
func (s *storageService) DeleteObject(sub authz.Subject, key string) error {
	if err := s.policy.Authorize(sub, authz.PermDelete, key); err != nil {
		return err
	}
	obj, err := s.find(key)
	if err != nil {
		return err
	}
	if err := s.db.Delete(obj).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *storageService) find(key string) (*models.StorageObject, error) {
	var obj models.StorageObject
	if err := s.db.First(&obj, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrObjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &obj, nil
}
