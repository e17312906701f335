// Package bonus calculates the forum reward points suggested for archives.
//
// The points depend on the forum category the archive is posted to. Each
// category rule yields two line items, one for the first post of a release
// and one for a later redistribution.
package bonus

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Defacto2/moelist"
	"github.com/Defacto2/moelist/tier"
)

var (
	ErrRule     = errors.New("bonus rule is invalid")
	ErrCategory = errors.New("bonus rule category is duplicated")
)

// Category is a forum category, either the identifier or the title of a rule.
type Category string

const (
	ForeignOriginal Category = "foreign-original" // ForeignOriginal is the foreign language original sharing category.
	ChinesePhysical Category = "chinese-physical" // ChinesePhysical is the chinese physical book redistribution category.
)

// Method is the calculation used by a rule.
type Method string

const (
	Ratio Method = "ratio" // Ratio weighs the size and the number of pages.
	Tier  Method = "tier"  // Tier uses the default bonus of the size tier.
)

// Item is a bonus line item.
type Item struct {
	Label string  // Label of the bonus.
	Base  float64 // Base points.
	Extra float64 // Extra points, awarded when the archive carries the label tag.
}

// Rule is the bonus calculation of a forum category.
type Rule struct {
	Category   Category `yaml:"category"`    // Category identifier.
	Title      string   `yaml:"title"`       // Title of the forum category, also accepted as the category.
	Method     Method   `yaml:"method"`      // Method of calculation.
	First      string   `yaml:"first"`       // First is the label of the first post item.
	Second     string   `yaml:"second"`      // Second is the label of the redistribution item.
	ExtraRate  float64  `yaml:"extra_rate"`  // ExtraRate is the extra points as a fraction of the base.
	SecondRate float64  `yaml:"second_rate"` // SecondRate is the redistribution points as a fraction of the first post.
	SizeUnit   float64  `yaml:"size_unit"`   // SizeUnit is the megabytes per Points, ratio only.
	PageUnit   float64  `yaml:"page_unit"`   // PageUnit is the files per Points, ratio only.
	Points     float64  `yaml:"points"`      // Points per unit, ratio only.
	SizeWeight float64  `yaml:"size_weight"` // SizeWeight of the size points, ratio only.
	PageWeight float64  `yaml:"page_weight"` // PageWeight of the page points, ratio only.
}

// Match returns true if the category is the rule identifier or title.
func (r Rule) Match(c Category) bool {
	if c == "" {
		return false
	}
	return r.Category == c || r.Title == string(c)
}

// Base returns the first post base points of the archive.
func (r Rule) Base(info moelist.Info) float64 {
	switch r.Method {
	case Ratio:
		size := tier.MB(info.Size) / r.SizeUnit * r.Points
		page := float64(info.Files) / r.PageUnit * r.Points
		return r.SizeWeight*size + r.PageWeight*page
	case Tier:
		return float64(tier.Classify(info.Size).Bonus())
	}
	return 0
}

// Items returns the first post and redistribution items of the archive.
func (r Rule) Items(info moelist.Info) []Item {
	base := r.Base(info)
	extra := base * r.ExtraRate
	return []Item{
		{Label: r.First, Base: base, Extra: extra},
		{Label: r.Second, Base: base * r.SecondRate, Extra: extra * r.SecondRate},
	}
}

// Validate returns an error if the rule cannot be calculated.
func (r Rule) Validate() error {
	switch {
	case r.Category == "":
		return fmt.Errorf("%w: empty category", ErrRule)
	case strings.TrimSpace(r.First) == "", strings.TrimSpace(r.Second) == "":
		return fmt.Errorf("%w: %s has an empty label", ErrRule, r.Category)
	case r.First == r.Second:
		return fmt.Errorf("%w: %s has the same first and second label %q", ErrRule, r.Category, r.First)
	case r.ExtraRate < 0, r.SecondRate < 0:
		return fmt.Errorf("%w: %s has a negative rate", ErrRule, r.Category)
	}
	switch r.Method {
	case Tier:
		return nil
	case Ratio:
		if r.SizeUnit <= 0 || r.PageUnit <= 0 {
			return fmt.Errorf("%w: %s needs positive size and page units", ErrRule, r.Category)
		}
		if r.Points < 0 || r.SizeWeight < 0 || r.PageWeight < 0 {
			return fmt.Errorf("%w: %s has negative points or weights", ErrRule, r.Category)
		}
		return nil
	}
	return fmt.Errorf("%w: %s has an unknown method %q", ErrRule, r.Category, r.Method)
}

// Rules are the bonus rules of the forum categories.
type Rules []Rule

// Default returns the rules of the moeshare forums.
func Default() Rules {
	return Rules{
		{
			Category:   ForeignOriginal,
			Title:      "外文原版分享区",
			Method:     Ratio,
			First:      "外文首发",
			Second:     "外文二次分流",
			ExtraRate:  0.3,
			SecondRate: 0.25,
			SizeUnit:   200,
			PageUnit:   200,
			Points:     5,
			SizeWeight: 0.75,
			PageWeight: 0.25,
		},
		{
			Category:   ChinesePhysical,
			Title:      "中文实体分流区",
			Method:     Tier,
			First:      "实体首发",
			Second:     "实体二次分流",
			ExtraRate:  0.3,
			SecondRate: 0.25,
		},
	}
}

// Rule returns the rule matching the category.
func (rs Rules) Rule(c Category) (Rule, bool) {
	for _, r := range rs {
		if r.Match(c) {
			return r, true
		}
	}
	return Rule{}, false
}

// For returns the bonus items of the archive in the category.
// An unknown category returns no items.
func (rs Rules) For(info moelist.Info, c Category) []Item {
	r, ok := rs.Rule(c)
	if !ok {
		return []Item{}
	}
	return r.Items(info)
}

// Total returns the bonus items of every archive in every category, summed by label.
// The items are in the order their labels were first seen, the categories
// being the outer loop and the archives the inner loop.
func (rs Rules) Total(infos []moelist.Info, categories []Category) []Item {
	items := []Item{}
	for _, c := range categories {
		for _, info := range infos {
			for _, item := range rs.For(info, c) {
				i := slices.IndexFunc(items, func(x Item) bool { return x.Label == item.Label })
				if i < 0 {
					items = append(items, item)
					continue
				}
				items[i].Base += item.Base
				items[i].Extra += item.Extra
			}
		}
	}
	return items
}

// Categories returns the category identifiers of the rules.
func (rs Rules) Categories() []Category {
	cs := make([]Category, 0, len(rs))
	for _, r := range rs {
		cs = append(cs, r.Category)
	}
	return cs
}

// Validate returns an error if any rule is invalid or a category is used twice.
func (rs Rules) Validate() error {
	seen := map[Category]bool{}
	for _, r := range rs {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.Category] {
			return fmt.Errorf("%w: %s", ErrCategory, r.Category)
		}
		seen[r.Category] = true
	}
	return nil
}

// For returns the bonus items of the archive using the default rules.
func For(info moelist.Info, c Category) []Item {
	return Default().For(info, c)
}

// Total returns the summed bonus items using the default rules.
func Total(infos []moelist.Info, categories []Category) []Item {
	return Default().Total(infos, categories)
}
