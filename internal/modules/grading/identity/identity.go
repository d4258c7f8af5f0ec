// Package identity derives the anonymized student label (UDI) stored on
// grading traces so records can be joined per student and term without
// carrying the raw user id.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

const DefaultSalt = "ANTI_GRAVITY_v1"

// Hash returns UDI-<HASH>-<course>-<year digits>-<semester>. HASH is the first
// four hex characters, upper-cased, of sha256("user:course:year:semester:salt").
// An empty salt uses DefaultSalt.
func Hash(userID, courseCode, academicYear, semester, salt string) string {
	if salt == "" {
		salt = DefaultSalt
	}
	raw := fmt.Sprintf("%s:%s:%s:%s:%s", userID, courseCode, academicYear, semester, salt)
	sum := sha256.Sum256([]byte(raw))
	short := strings.ToUpper(hex.EncodeToString(sum[:])[:4])
	return fmt.Sprintf("UDI-%s-%s-%s-%s", short, courseCode, digitsOnly(academicYear), semester)
}

// Hasher binds a salt so callers don't thread it through every call.
type Hasher struct {
	salt string
}

func NewHasher(salt string) *Hasher {
	return &Hasher{salt: salt}
}

func (h *Hasher) Hash(userID, courseCode, academicYear, semester string) string {
	return Hash(userID, courseCode, academicYear, semester, h.salt)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
