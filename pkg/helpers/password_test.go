package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	for _, p := range []string{"Abcdef1!", "pässwörd", " "} {
		hash, err := h.Hash(p)
		require.NoError(t, err)
		require.NotEqual(t, p, hash)
		require.True(t, h.Compare(hash, p))
		require.False(t, h.Compare(hash, p+"x"))
	}

	a, _ := h.Hash("Abcdef1!")
	b, _ := h.Hash("Abcdef1!")
	require.NotEqual(t, a, b, "salted")
}

func TestHashPasswordUsesFixedCost(t *testing.T) {
	hash, err := HashPassword("Abcdef1!")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, BcryptCost, cost)
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	require.Equal(t, BcryptCost, NewPasswordHasher(0).Cost)
	require.Equal(t, BcryptCost, NewPasswordHasher(99).Cost)
	require.Equal(t, 10, NewPasswordHasher(10).Cost)
}

func TestHashTooLong(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MinCost).Hash(strings.Repeat("A", 73))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"Abcdef1!", nil},
		{"Abc1!xy", ErrPasswordTooShort},
		{"", ErrPasswordTooShort},
		{"abcdef1!", ErrPasswordNoUpper},
		{"ABCDEF1!", ErrPasswordNoLower},
		{"Abcdefg!", ErrPasswordNoDigit},
		{"Abcdefg1", ErrPasswordNoSpecial},
		// first failing rule wins
		{"abcdefgh", ErrPasswordNoUpper},
		{"abc", ErrPasswordTooShort},
		{"Abcdef1 ", ErrPasswordNoSpecial},
		{"Abcdef1+", nil},
		{"Äbcdéf1€", nil},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ValidatePasswordStrength(tc.in), tc.in)
	}
}
