package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CodeTTL is how long a verification code stays valid.
const CodeTTL = 15 * time.Minute

// verificationEmailSubject is the subject line for sign-up verification mail.
const verificationEmailSubject = "Welcome to SeedIt - Verify your email"

// NewCode generates a 6-digit numeric verification code.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// VerificationMessage renders the templated message the code is delivered in.
func VerificationMessage(code string) (subject, body string) {
	return verificationEmailSubject,
		fmt.Sprintf("Use this code to confirm your account: %s", code)
}

// Expired reports whether a code issued at the given time is past its TTL.
func Expired(issuedAt time.Time) bool {
	return time.Since(issuedAt) > CodeTTL
}
