package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// TemporaryPasswordAlphabet leaves out characters that are easy to misread.
const TemporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

const (
	minTemporaryPasswordLength = 8
	maxTemporaryPasswordDraws  = 64
)

var (
	errNegativeLength  = errors.New("length must be non-negative")
	errEmptyAlphabet   = errors.New("alphabet must not be empty")
	errPasswordClasses = errors.New("could not draw a password with mixed character classes")
)

// RandomString returns an unbiased string of length characters drawn from
// alphabet with crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if alphabet == "" {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}
	return string(value), nil
}

// TemporaryPassword draws until the result mixes upper case, lower case and
// digits so it passes the account password policy. Lengths under eight are
// raised to eight.
func TemporaryPassword(length int) (string, error) {
	if length < minTemporaryPasswordLength {
		length = minTemporaryPasswordLength
	}

	for draw := 0; draw < maxTemporaryPasswordDraws; draw++ {
		candidate, err := RandomString(length, TemporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if hasMixedClasses(candidate) {
			return candidate, nil
		}
	}
	return "", errPasswordClasses
}

func hasMixedClasses(value string) bool {
	return strings.ContainsAny(value, "ABCDEFGHJKLMNPQRSTUVWXYZ") &&
		strings.ContainsAny(value, "abcdefghijkmnopqrstuvwxyz") &&
		strings.ContainsAny(value, "23456789")
}
