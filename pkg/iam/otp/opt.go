package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Purpose separates codes issued for different flows. A code issued for one
// purpose is never checked against another.
type Purpose string

const (
	PurposeRegistration Purpose = "registration"
	PurposeReset        Purpose = "reset"
)

func (p Purpose) IsValid() bool {
	return p == PurposeRegistration || p == PurposeReset
}

// OTP is an issued verification code.
type OTP struct {
	Contact   string
	Code      string
	Purpose   Purpose
	ExpiresAt time.Time
}

// Generator produces verification codes.
type Generator interface {
	Generate() (string, error)
}

// NumericGenerator yields fixed-length decimal codes from crypto/rand.
type NumericGenerator struct {
	Length int
}

func (g NumericGenerator) Generate() (string, error) {
	length := g.Length
	if length <= 0 {
		length = 6
	}
	return GenerateOTPCode(length)
}

// GenerateOTPCode returns a uniformly random code of exactly length digits,
// zero padded.
func GenerateOTPCode(length int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", length, n), nil
}
