package usecase

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"
)

// Alphabet for the random code suffix: 36 symbols, 3 positions, so a
// 1-in-46656 chance of two codes colliding within the same hour and
// plan. Accepted risk; issuance overwrites on collision.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateAccessCode mints a 6-character code: the local hour
// zero-padded to two digits, the plan letter, and three random suffix
// characters. Embedding the hour lets validation bind redemption to the
// clock hour of issuance without a timestamp inside the code.
func generateAccessCode(planCode byte, now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return fmt.Sprintf("%02d%c%s", now.Hour(), planCode, buf), nil
}
