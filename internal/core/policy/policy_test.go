package policy

import (
	"errors"
	"strings"
	"testing"
)

// stubScorer returns a fixed score for every password.
type stubScorer struct{ score int }

func (s stubScorer) Score(string) int { return s.score }

func TestRepeatedCharRule_Boundary(t *testing.T) {
	rule := NewRepeatedCharRule(4)

	// Exactly 4 repeats passes (inclusive boundary).
	if v := rule.Check("xxxxAb1!"); v != nil {
		t.Fatalf("4 repeats must pass, got %+v", v)
	}
	// 5 repeats fails.
	v := rule.Check("xxxxxAb1!")
	if v == nil {
		t.Fatalf("5 repeats must fail")
	}
	if v.Code != "REPEAT" {
		t.Fatalf("unexpected code %q", v.Code)
	}
	// Runs are reset by different characters.
	if v := rule.Check("xxAbxxAbxx"); v != nil {
		t.Fatalf("interrupted runs must pass, got %+v", v)
	}
	// Empty passwords and disabled rule pass.
	if v := rule.Check(""); v != nil {
		t.Fatalf("empty password must pass the repeat rule")
	}
	if v := NewRepeatedCharRule(0).Check("aaaaaaaa"); v != nil {
		t.Fatalf("disabled rule must pass")
	}
}

func TestStrengthRule(t *testing.T) {
	if v := NewStrengthRule(3, stubScorer{score: 3}).Check("whatever"); v != nil {
		t.Fatalf("score at threshold must pass, got %+v", v)
	}
	v := NewStrengthRule(3, stubScorer{score: 2}).Check("whatever")
	if v == nil || v.Code != "ENTROPY" {
		t.Fatalf("score below threshold must fail with ENTROPY, got %+v", v)
	}
}

func TestValidator_CollectsAllViolations(t *testing.T) {
	validator := NewDefaultValidator(stubScorer{score: 0})

	err := validator.Validate("aaaaaaaa")
	if err == nil {
		t.Fatalf("expected violation error")
	}
	var ve *ViolationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ViolationError, got %T", err)
	}
	if len(ve.Violations) != 2 {
		t.Fatalf("expected both REPEAT and ENTROPY, got %+v", ve.Violations)
	}
	if !strings.Contains(ve.Error(), "REPEAT") || !strings.Contains(ve.Error(), "ENTROPY") {
		t.Fatalf("error message must list all codes: %s", ve.Error())
	}
}

func TestValidator_Pass(t *testing.T) {
	validator := NewDefaultValidator(stubScorer{score: 4})
	if err := validator.Validate("Str0ng@Pwd1"); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
}
