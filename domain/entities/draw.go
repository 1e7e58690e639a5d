package entities

import (
	"time"
)

// DerivedResult holds every face computed from a draw's two raw results.
// It is a pure function of StraightResult and SecondaryResult.
type DerivedResult struct {
	ThreeUpStraight   string   `json:"three_up_straight"`
	ThreeUpRumble     []string `json:"three_up_rumble"`
	TwoUpStraight     string   `json:"two_up_straight"`
	SecondaryStraight string   `json:"secondary_straight"`
	ThreeUpDigits     []string `json:"three_up_digits"`
	TwoUpDigits       []string `json:"two_up_digits"`
	SecondaryDigits   []string `json:"secondary_digits"`
	ThreeUpTotal      string   `json:"three_up_total"`
	TwoUpTotal        string   `json:"two_up_total"`
	SecondaryTotal    string   `json:"secondary_total"`
}

// FaceStraight returns the straight numeral for a face
func (d *DerivedResult) FaceStraight(face Face) string {
	switch face {
	case FaceThreeUp:
		return d.ThreeUpStraight
	case FaceTwoUp:
		return d.TwoUpStraight
	case FaceSecondary:
		return d.SecondaryStraight
	}
	return ""
}

// FaceDigits returns the single-digit breakdown for a face
func (d *DerivedResult) FaceDigits(face Face) []string {
	switch face {
	case FaceThreeUp:
		return d.ThreeUpDigits
	case FaceTwoUp:
		return d.TwoUpDigits
	case FaceSecondary:
		return d.SecondaryDigits
	}
	return nil
}

// FaceTotal returns the one-step digit sum for a face
func (d *DerivedResult) FaceTotal(face Face) string {
	switch face {
	case FaceThreeUp:
		return d.ThreeUpTotal
	case FaceTwoUp:
		return d.TwoUpTotal
	case FaceSecondary:
		return d.SecondaryTotal
	}
	return ""
}

// Draw is one game instance identified by (GameType, DrawNumber).
// Results are empty until published.
type Draw struct {
	ID              int64          `db:"id"`
	GameType        string         `db:"game_type"`
	DrawNumber      string         `db:"draw_number"`
	LastBettingDay  time.Time      `db:"last_betting_day"` // date only
	StraightResult  string         `db:"straight_result"`
	SecondaryResult string         `db:"secondary_result"`
	Derived         *DerivedResult `db:"-"` // nil until published
	Locked          bool           `db:"locked"`
	PublishedAt     *time.Time     `db:"published_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// IsPublished returns true once a result has been derived
func (d *Draw) IsPublished() bool {
	return d.PublishedAt != nil && d.Derived != nil
}

// CanEdit returns true while the draw is unlocked
func (d *Draw) CanEdit() bool {
	return !d.Locked
}

// AcceptsWagers returns true until the draw result is published
func (d *Draw) AcceptsWagers() bool {
	return !d.IsPublished() && !d.Locked
}
