package account

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Abraxas-365/matchhub/pkg/errx"
)

func TestToDTO_OmitsPasswordHash(t *testing.T) {
	acc := &Account{ID: 3, Email: "ana@example.com", Login: "ana", Name: "Ana", PasswordHash: "$2a$10$secret"}

	raw, err := json.Marshal(acc.ToDTO())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "password") {
		t.Fatalf("dto leaks the hash: %s", raw)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestConflictErrorsShareCode(t *testing.T) {
	for _, err := range []error{ErrEmailTaken("a@b.c"), ErrLoginTaken("ana"), ErrAccountAlreadyExists()} {
		if !errx.IsCode(err, CodeAccountAlreadyExists) {
			t.Errorf("%v should carry %s", err, CodeAccountAlreadyExists.Code)
		}
	}
}
