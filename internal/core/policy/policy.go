// Package policy implements the composable password policy chain applied to
// candidate passwords at registration time. Rules are stateless; the
// validator runs every rule and reports all violations at once so clients
// can surface every problem in a single round trip.
package policy

import (
	"fmt"
	"strings"
)

// Violation is a single policy breach with a machine-readable code and a
// human-readable message.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Rule is the strategy for a single password check. Implementations are
// stateless and safe for concurrent use. Check returns nil when the rule
// passes.
type Rule interface {
	Check(password string) *Violation
}

// StrengthScorer grades a password on an external 0-4 entropy scale. The
// zxcvbn adapter in the infrastructure layer is the production
// implementation.
type StrengthScorer interface {
	Score(password string) int
}

// ViolationError carries the full violation list when any rule fails.
type ViolationError struct {
	Violations []Violation
}

func (e *ViolationError) Error() string {
	codes := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		codes[i] = v.Code
	}
	return "password policy violated: " + strings.Join(codes, ", ")
}

// RepeatedCharRule fails when any character repeats more than maxRun times
// consecutively. The boundary is inclusive: exactly maxRun repeats passes.
type RepeatedCharRule struct {
	maxRun int
}

func NewRepeatedCharRule(maxRun int) RepeatedCharRule {
	return RepeatedCharRule{maxRun: maxRun}
}

func (r RepeatedCharRule) Check(password string) *Violation {
	if password == "" || r.maxRun <= 0 {
		return nil
	}
	runes := []rune(password)
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] != runes[i-1] {
			run = 1
			continue
		}
		run++
		if run > r.maxRun {
			return &Violation{
				Code:    "REPEAT",
				Message: fmt.Sprintf("character %q repeated %d times, exceeding the limit of %d", runes[i], run, r.maxRun),
			}
		}
	}
	return nil
}

// StrengthRule rejects passwords scoring below minScore on the scorer's
// 0-4 scale.
type StrengthRule struct {
	minScore int
	scorer   StrengthScorer
}

func NewStrengthRule(minScore int, scorer StrengthScorer) StrengthRule {
	return StrengthRule{minScore: minScore, scorer: scorer}
}

func (r StrengthRule) Check(password string) *Violation {
	score := r.scorer.Score(password)
	if score < r.minScore {
		return &Violation{
			Code:    "ENTROPY",
			Message: fmt.Sprintf("password too weak: entropy score %d/4", score),
		}
	}
	return nil
}

// Validator runs an ordered, explicitly constructed rule chain. The chain is
// fixed at construction time; there is no dynamic registration.
type Validator struct {
	rules []Rule
}

// NewValidator builds a validator from an explicit rule list.
func NewValidator(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// NewDefaultValidator wires the default chain: no character may repeat more
// than 4 times consecutively, and the strength score must reach 3 out of 4.
func NewDefaultValidator(scorer StrengthScorer) *Validator {
	return NewValidator(
		NewRepeatedCharRule(4),
		NewStrengthRule(3, scorer),
	)
}

// Validate runs every rule (no short-circuit) and returns a ViolationError
// listing every breach, or nil when the password passes all rules.
func (v *Validator) Validate(password string) error {
	var violations []Violation
	for _, rule := range v.rules {
		if breach := rule.Check(password); breach != nil {
			violations = append(violations, *breach)
		}
	}
	if len(violations) > 0 {
		return &ViolationError{Violations: violations}
	}
	return nil
}
