package security

import "github.com/nbutton23/zxcvbn-go"

// ZxcvbnScorer grades passwords on zxcvbn's 0-4 scale. It implements
// policy.StrengthScorer.
type ZxcvbnScorer struct{}

func NewZxcvbnScorer() ZxcvbnScorer {
	return ZxcvbnScorer{}
}

func (ZxcvbnScorer) Score(password string) int {
	return zxcvbn.PasswordStrength(password, nil).Score
}
