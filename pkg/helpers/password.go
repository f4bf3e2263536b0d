package helpers

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for stored credentials.
const BcryptCost = 12

const minPasswordLength = 8

var (
	ErrPasswordTooShort   = errors.New("Password must be at least 8 characters long")
	ErrPasswordNoUpper    = errors.New("Password must contain at least one uppercase letter")
	ErrPasswordNoLower    = errors.New("Password must contain at least one lowercase letter")
	ErrPasswordNoDigit    = errors.New("Password must contain at least one number")
	ErrPasswordNoSpecial  = errors.New("Password must contain at least one special character")
	ErrPasswordTooLong    = bcrypt.ErrPasswordTooLong
	ErrPasswordHashFailed = errors.New("password hashing failed")
)

// PasswordHasher hashes and verifies secrets with bcrypt at a fixed cost.
type PasswordHasher struct {
	Cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = BcryptCost
	}
	return &PasswordHasher{Cost: cost}
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", errors.Join(ErrPasswordHashFailed, err)
	}
	return string(b), nil
}

func (h *PasswordHasher) Compare(hash, plain string) bool {
	return CompareHashAndPassword(hash, plain)
}

// HashPassword hashes the plain text password using bcrypt at BcryptCost
func HashPassword(plain string) (string, error) {
	return NewPasswordHasher(BcryptCost).Hash(plain)
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePasswordStrength reports the first failing rule, checked in the order
// length, uppercase, lowercase, digit, special. Punctuation and symbol runes
// both count as special.
func ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	switch {
	case !upper:
		return ErrPasswordNoUpper
	case !lower:
		return ErrPasswordNoLower
	case !digit:
		return ErrPasswordNoDigit
	case !special:
		return ErrPasswordNoSpecial
	}
	return nil
}
