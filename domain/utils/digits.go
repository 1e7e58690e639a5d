package utils

import (
	"sort"
	"strconv"

	"lottosettle/domain/entities"

	"github.com/samber/lo"
)

// ValidateNumeral rejects empty, short or non-digit numerals. It is the only
// input check: the functions below assume a valid numeral.
func ValidateNumeral(field, numeral string, minLen int) error {
	if len(numeral) == 0 {
		return entities.NewInvalidInput(field, "numeral is empty")
	}
	if len(numeral) < minLen {
		return entities.NewInvalidInput(field, "numeral %q must have at least %d digits", numeral, minLen)
	}
	for i := 0; i < len(numeral); i++ {
		if numeral[i] < '0' || numeral[i] > '9' {
			return entities.NewInvalidInput(field, "numeral %q contains a non-digit character", numeral)
		}
	}
	return nil
}

// Digits splits a numeral into single-digit strings
func Digits(numeral string) []string {
	return lo.Map([]byte(numeral), func(b byte, _ int) string {
		return string(b)
	})
}

// UniquePermutations returns every distinct ordering of the numeral's digits in
// ascending order. Repeated digits collapse: "112" yields 112, 121, 211.
func UniquePermutations(numeral string) []string {
	if numeral == "" {
		return nil
	}

	digits := []byte(numeral)
	sort.Slice(digits, func(i, j int) bool { return digits[i] < digits[j] })

	perms := []string{string(digits)}
	for nextPermutation(digits) {
		perms = append(perms, string(digits))
	}
	return perms
}

// nextPermutation advances digits to the next lexicographic ordering in place.
// Equal digits are never swapped past each other, so duplicates are skipped.
func nextPermutation(digits []byte) bool {
	i := len(digits) - 2
	for i >= 0 && digits[i] >= digits[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	j := len(digits) - 1
	for digits[j] <= digits[i] {
		j--
	}
	digits[i], digits[j] = digits[j], digits[i]

	for l, r := i+1, len(digits)-1; l < r; l, r = l+1, r-1 {
		digits[l], digits[r] = digits[r], digits[l]
	}
	return true
}

// DigitSum1 sums the digits and keeps the ones digit of that sum.
// This is a single reduction, not a digital root: "99" sums to 18 and gives "8".
func DigitSum1(numeral string) string {
	sum := 0
	for i := 0; i < len(numeral); i++ {
		sum += int(numeral[i] - '0')
	}
	s := strconv.Itoa(sum)
	return s[len(s)-1:]
}

// IsPermutationOf reports whether a and b contain the same digit multiset.
// Any byte outside 0-9 makes the answer false.
func IsPermutationOf(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var counts [10]int
	for i := 0; i < len(a); i++ {
		if !isDigit(a[i]) || !isDigit(b[i]) {
			return false
		}
		counts[a[i]-'0']++
		counts[b[i]-'0']--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
