package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const base36Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateSecureOTP generates a cryptographically secure 6-digit OTP.
// The first digit is never zero.
func GenerateSecureOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// RandomBase36 returns n uppercase base36 characters from crypto/rand.
func RandomBase36(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(base36Digits)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random suffix: %w", err)
		}
		b.WriteByte(base36Digits[idx.Int64()])
	}
	return b.String(), nil
}

// Base36Millis renders t as uppercase base36 milliseconds since the epoch.
func Base36Millis(t time.Time) string {
	return strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}
