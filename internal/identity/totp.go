package identity

import (
	"github.com/pquerna/otp/totp"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "SeedIt"

// NewTOTPSecret generates a TOTP enrollment for the given account. It
// returns the shared secret and the otpauth:// provisioning URL.
func NewTOTPSecret(accountName string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTP checks a time-based one-time password against the secret.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
