package services

import (
	"lottosettle/domain/entities"
	"lottosettle/domain/utils"

	"github.com/samber/lo"
)

const (
	// MinStraightDigits is the shortest accepted house-drawn straight result
	MinStraightDigits = 6
	// MinSecondaryDigits is the shortest accepted secondary result
	MinSecondaryDigits = 2
)

// DeriveResult computes every scoreable face from the two raw results.
// The output depends only on its inputs, so deriving twice yields identical values.
func DeriveResult(straight, secondary string) (*entities.DerivedResult, error) {
	if err := utils.ValidateNumeral("straight_result", straight, MinStraightDigits); err != nil {
		return nil, err
	}
	if err := utils.ValidateNumeral("secondary_result", secondary, MinSecondaryDigits); err != nil {
		return nil, err
	}

	threeUp := straight[len(straight)-3:]
	twoUp := straight[len(straight)-2:]

	return &entities.DerivedResult{
		ThreeUpStraight:   threeUp,
		ThreeUpRumble:     utils.UniquePermutations(threeUp),
		TwoUpStraight:     twoUp,
		SecondaryStraight: secondary,
		ThreeUpDigits:     utils.Digits(threeUp),
		TwoUpDigits:       utils.Digits(twoUp),
		SecondaryDigits:   utils.Digits(secondary),
		ThreeUpTotal:      utils.DigitSum1(threeUp),
		TwoUpTotal:        utils.DigitSum1(twoUp),
		SecondaryTotal:    utils.DigitSum1(secondary),
	}, nil
}

// WagerWins reports whether a wager's numeral scores against a derived result
func WagerWins(subType entities.SubType, numeral string, derived *entities.DerivedResult) bool {
	spec, ok := subType.Spec()
	if !ok || derived == nil {
		return false
	}

	switch spec.Variant {
	case entities.VariantStraight:
		return numeral == derived.FaceStraight(spec.Face)
	case entities.VariantRumble:
		if spec.Face == entities.FaceThreeUp {
			return lo.Contains(derived.ThreeUpRumble, numeral)
		}
		face := derived.FaceStraight(spec.Face)
		return len(numeral) == len(face) && utils.IsPermutationOf(numeral, face)
	case entities.VariantSingle:
		return lo.Contains(derived.FaceDigits(spec.Face), numeral)
	case entities.VariantTotal:
		return numeral == derived.FaceTotal(spec.Face)
	}
	return false
}
