// Package tier classifies an archive by its size into one of eight size tiers.
//
// The breakpoints use binary megabytes, 1 MB is 1,048,576 bytes.
package tier

import "strings"

// Tier is the size tier of an archive.
type Tier int

const (
	XXS  Tier = iota // XXS is less than 20 MB.
	XS               // XS is less than 50 MB.
	S                // S is less than 100 MB.
	M                // M is less than 175 MB.
	L                // L is less than 300 MB.
	XL               // XL is less than 500 MB.
	XXL              // XXL is less than 800 MB.
	XXXL             // XXXL is 800 MB or more.
)

const mebibyte = 1024 * 1024

// MB returns the bytes as binary megabytes.
func MB(bytes int64) float64 {
	return float64(bytes) / mebibyte
}

// Classify returns the tier of the size in bytes.
func Classify(bytes int64) Tier {
	mb := MB(bytes)
	switch {
	case mb < 20:
		return XXS
	case mb < 50:
		return XS
	case mb < 100:
		return S
	case mb < 175:
		return M
	case mb < 300:
		return L
	case mb < 500:
		return XL
	case mb < 800:
		return XXL
	}
	return XXXL
}

// Tiers returns all the tiers in ascending order.
func Tiers() []Tier {
	return []Tier{XXS, XS, S, M, L, XL, XXL, XXXL}
}

// Bonus returns the default bonus points of the tier.
// An out of range tier returns 0.
func (t Tier) Bonus() int {
	switch t {
	case XXS:
		return 2
	case XS:
		return 4
	case S:
		return 5
	case M:
		return 6
	case L:
		return 8
	case XL:
		return 10
	case XXL:
		return 13
	case XXXL:
		return 16
	}
	return 0
}

// DefaultBonus returns the default bonus points of the tier.
func DefaultBonus(t Tier) int {
	return t.Bonus()
}

func (t Tier) String() string {
	switch t {
	case XXS:
		return "XXS"
	case XS:
		return "XS"
	case S:
		return "S"
	case M:
		return "M"
	case L:
		return "L"
	case XL:
		return "XL"
	case XXL:
		return "XXL"
	case XXXL:
		return "XXXL"
	}
	return ""
}

// Parse returns the tier of the case-insensitive label.
func Parse(s string) (Tier, bool) {
	label := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range Tiers() {
		if t.String() == label {
			return t, true
		}
	}
	return XXS, false
}
