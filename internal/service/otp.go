package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const otpDigits = 6

// OTPGenerator produces fixed-width numeric codes.
type OTPGenerator interface {
	Generate() (string, error)
}

type randomOTP struct{}

// NewOTPGenerator returns a generator backed by crypto/rand.
func NewOTPGenerator() OTPGenerator { return randomOTP{} }

func (randomOTP) Generate() (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(otpDigits), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// otpExpiry is the instant a code issued at now stops being accepted.
func otpExpiry(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl)
}

// otpExpired reports whether now is at or past expiresAt.
func otpExpired(now, expiresAt time.Time) bool {
	return !now.Before(expiresAt)
}

// validAadhaar reports whether s is exactly twelve ASCII digits.
func validAadhaar(s string) bool {
	if len(s) != 12 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
