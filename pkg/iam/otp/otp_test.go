package otp

import (
	"regexp"
	"testing"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestNumericGenerator_SixDigits(t *testing.T) {
	g := NumericGenerator{Length: 6}
	for range 200 {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !sixDigits.MatchString(code) {
			t.Fatalf("code %q is not six digits", code)
		}
	}
}

func TestNumericGenerator_DefaultsLength(t *testing.T) {
	code, err := NumericGenerator{}.Generate()
	if err != nil || len(code) != 6 {
		t.Fatalf("got %q, %v", code, err)
	}
}

func TestGenerateOTPCode_Length(t *testing.T) {
	for _, n := range []int{4, 8} {
		code, err := GenerateOTPCode(n)
		if err != nil || len(code) != n {
			t.Errorf("GenerateOTPCode(%d) = %q, %v", n, code, err)
		}
	}
}

func TestPurpose(t *testing.T) {
	if !PurposeRegistration.IsValid() || !PurposeReset.IsValid() || Purpose("login").IsValid() {
		t.Fatal("unexpected purpose validity")
	}
}
