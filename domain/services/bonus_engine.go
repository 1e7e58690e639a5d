package services

import (
	"lottosettle/domain/entities"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// EvaluateBonus returns the first rule of the given kind whose target equals the
// trigger value. Matching is exact, so at most one rule fires per trigger.
func EvaluateBonus(kind entities.BonusKind, trigger decimal.Decimal, rules []entities.BonusRule) (*entities.BonusRule, bool) {
	rule, ok := lo.Find(rules, func(r entities.BonusRule) bool {
		return r.Kind == kind && r.TargetValue.Equal(trigger)
	})
	if !ok {
		return nil, false
	}
	return &rule, true
}
