package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateSecureOTP()
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9][0-9]{5}$`, otp)
	}
}

func TestRandomBase36(t *testing.T) {
	s, err := RandomBase36(4)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-Z]{4}$`), s)

	empty, err := RandomBase36(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBase36Millis(t *testing.T) {
	assert.Equal(t, "0", Base36Millis(time.UnixMilli(0)))
	assert.Equal(t, "ZZ", Base36Millis(time.UnixMilli(36*36-1)))
}
