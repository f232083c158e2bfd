package passwords

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const Cost = 10

type Hasher struct{}

func NewHasher() Hasher {
	return Hasher{}
}

func (Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (Hasher) Compare(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}

// NormalizeAnswer makes security answers comparable regardless of case
// and surrounding whitespace.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
