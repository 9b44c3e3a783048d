// Package room handles the invite codes that identify a roommate group.
package room

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/kazz187/roomez/pkg/cerr"
)

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultCodeLength = 4
	MinCodeLength     = 4
	MaxCodeLength     = 12
)

// GenerateCode returns n random characters from A-Z and 0-9. n <= 0 uses DefaultCodeLength.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		n = DefaultCodeLength
	}
	limit := big.NewInt(int64(len(codeAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for range n {
		i, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", cerr.NewError(cerr.Internal, "server error", err)
		}
		b.WriteByte(codeAlphabet[i.Int64()])
	}
	return b.String(), nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCode accepts an already normalized code.
func ValidateCode(code string) error {
	if len(code) < MinCodeLength || len(code) > MaxCodeLength {
		return cerr.NewInvalidArgument("room code must be 4 to 12 characters", "room_code.len")
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(code[i])) {
			return cerr.NewInvalidArgument("room code may only contain A-Z and 0-9", "room_code.pattern")
		}
	}
	return nil
}

// ParseCode normalizes and validates code in one step.
func ParseCode(code string) (string, error) {
	c := NormalizeCode(code)
	if err := ValidateCode(c); err != nil {
		return "", err
	}
	return c, nil
}
