package entities

// Face is one scoreable sub-result of a draw
type Face string

const (
	FaceThreeUp   Face = "three_up"
	FaceTwoUp     Face = "two_up"
	FaceSecondary Face = "secondary"
)

// Variant is how a wager is matched against its face
type Variant string

const (
	VariantStraight Variant = "straight" // exact order
	VariantRumble   Variant = "rumble"   // any order
	VariantSingle   Variant = "single"   // one digit appears in the face
	VariantTotal    Variant = "total"    // one-step digit sum of the face
)

// SubType is the closed set of wager categories. Rate tables are keyed by it.
type SubType string

const (
	SubTypeThreeUpStraight   SubType = "three_up_straight"
	SubTypeThreeUpRumble     SubType = "three_up_rumble"
	SubTypeThreeUpSingle     SubType = "three_up_single"
	SubTypeThreeUpTotal      SubType = "three_up_total"
	SubTypeTwoUpStraight     SubType = "two_up_straight"
	SubTypeTwoUpSingle       SubType = "two_up_single"
	SubTypeTwoUpTotal        SubType = "two_up_total"
	SubTypeSecondaryStraight SubType = "secondary_straight"
	SubTypeSecondaryRumble   SubType = "secondary_rumble"
	SubTypeSecondarySingle   SubType = "secondary_single"
	SubTypeSecondaryTotal    SubType = "secondary_total"
)

// SubTypeSpec describes the face, matching variant and numeral length of a sub-type
type SubTypeSpec struct {
	Face        Face
	Variant     Variant
	NumeralLen  int
	DisplayName string
}

var subTypeOrder = []SubType{
	SubTypeThreeUpStraight,
	SubTypeThreeUpRumble,
	SubTypeThreeUpSingle,
	SubTypeThreeUpTotal,
	SubTypeTwoUpStraight,
	SubTypeTwoUpSingle,
	SubTypeTwoUpTotal,
	SubTypeSecondaryStraight,
	SubTypeSecondaryRumble,
	SubTypeSecondarySingle,
	SubTypeSecondaryTotal,
}

var subTypeSpecs = map[SubType]SubTypeSpec{
	SubTypeThreeUpStraight:   {FaceThreeUp, VariantStraight, 3, "3 Up Straight"},
	SubTypeThreeUpRumble:     {FaceThreeUp, VariantRumble, 3, "3 Up Rumble"},
	SubTypeThreeUpSingle:     {FaceThreeUp, VariantSingle, 1, "3 Up Single"},
	SubTypeThreeUpTotal:      {FaceThreeUp, VariantTotal, 1, "3 Up Total"},
	SubTypeTwoUpStraight:     {FaceTwoUp, VariantStraight, 2, "2 Up Straight"},
	SubTypeTwoUpSingle:       {FaceTwoUp, VariantSingle, 1, "2 Up Single"},
	SubTypeTwoUpTotal:        {FaceTwoUp, VariantTotal, 1, "2 Up Total"},
	SubTypeSecondaryStraight: {FaceSecondary, VariantStraight, 2, "Secondary Straight"},
	SubTypeSecondaryRumble:   {FaceSecondary, VariantRumble, 2, "Secondary Rumble"},
	SubTypeSecondarySingle:   {FaceSecondary, VariantSingle, 1, "Secondary Single"},
	SubTypeSecondaryTotal:    {FaceSecondary, VariantTotal, 1, "Secondary Total"},
}

// AllSubTypes returns every sub-type in display order
func AllSubTypes() []SubType {
	out := make([]SubType, len(subTypeOrder))
	copy(out, subTypeOrder)
	return out
}

// Spec returns the sub-type description; ok is false for unknown values
func (s SubType) Spec() (SubTypeSpec, bool) {
	spec, ok := subTypeSpecs[s]
	return spec, ok
}

// ParseSubType validates a raw identifier against the closed enumeration
func ParseSubType(raw string) (SubType, error) {
	st := SubType(raw)
	if _, ok := subTypeSpecs[st]; !ok {
		return "", NewInvalidInput("sub_type", "unknown sub-type %q", raw)
	}
	return st, nil
}
