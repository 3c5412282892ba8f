// internal/service/category/resolver.go

package category

import (
	"strings"

	"emojimap/internal/domain/place"
)

// defaultCategoryName is assigned when a place has no usable type data
const defaultCategoryName = "place"

// Result is the outcome of resolving one place
type Result struct {
	Category       string
	Emoji          string
	MatchedKeyword string
}

// extractor pulls one candidate category string from a place
type extractor func(p place.RawPlace) string

// fallbackExtractors are tried in order when no keyword matched
var fallbackExtractors = []extractor{
	func(p place.RawPlace) string {
		if p.PrimaryTypeDisplayName == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(p.PrimaryTypeDisplayName.Text))
	},
	func(p place.RawPlace) string {
		return strings.ToLower(strings.TrimSpace(p.PrimaryType))
	},
}

// Resolver assigns a category and emoji to raw places
type Resolver struct {
	taxonomy *Taxonomy
}

// NewResolver creates a resolver over the given taxonomy
func NewResolver(taxonomy *Taxonomy) *Resolver {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &Resolver{taxonomy: taxonomy}
}

// Resolve picks exactly one category and emoji for p. Keywords are expected
// lowercased and are tried in order; the first one found in any place field
// wins. The boolean is false when p lacks an id or numeric coordinates, in
// which case no counters are touched.
func (r *Resolver) Resolve(p place.RawPlace, keywords []string, stats *place.FilterStatistics) (Result, bool) {
	if !HasRequiredFields(p) {
		return Result{}, false
	}
	if stats == nil {
		stats = &place.FilterStatistics{}
	}

	var res Result

	if kw, ok := matchKeyword(p, keywords); ok {
		res.MatchedKeyword = kw
		res.Category = kw

		if c, found := r.taxonomy.FindByKeyword(kw); found && c.Name != kw {
			res.Category = c.Name
			stats.MappedToMainCategory++
		}
	} else {
		stats.NoKeywordMatch++
		res.Category = fallbackCategory(p)
		if res.Category == defaultCategoryName {
			stats.DefaultedToPlace++
		}
	}

	res.Emoji = r.resolveEmoji(res.MatchedKeyword, res.Category, stats)

	return res, true
}

// HasRequiredFields reports whether p has an id and numeric coordinates
func HasRequiredFields(p place.RawPlace) bool {
	return p.ID != "" &&
		p.Location != nil &&
		p.Location.Latitude != nil &&
		p.Location.Longitude != nil
}

// resolveEmoji tries the matched keyword, the final category name, a fuzzy
// name match, then the default glyph
func (r *Resolver) resolveEmoji(matched, categoryName string, stats *place.FilterStatistics) string {
	if matched != "" {
		if c, ok := r.taxonomy.FindByKeyword(matched); ok && c.Emoji != "" {
			return c.Emoji
		}
	}

	if c, ok := r.taxonomy.FindByName(categoryName); ok && c.Emoji != "" {
		return c.Emoji
	}

	if c, ok := r.taxonomy.FuzzyFind(categoryName); ok && c.Emoji != "" {
		return c.Emoji
	}

	stats.NoEmoji++
	return DefaultEmoji
}

// matchKeyword returns the first keyword contained in any searchable field
func matchKeyword(p place.RawPlace, keywords []string) (string, bool) {
	fields := searchableFields(p)

	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		for _, f := range fields {
			if f == kw || strings.Contains(f, kw) {
				return kw, true
			}
		}
	}
	return "", false
}

// searchableFields lists the lowercased fields a keyword may appear in, in
// lookup order
func searchableFields(p place.RawPlace) []string {
	fields := make([]string, 0, len(p.Types)+4)

	add := func(s string) {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			fields = append(fields, s)
		}
	}

	add(p.PrimaryType)
	for _, t := range p.Types {
		add(t)
	}
	if p.PrimaryTypeDisplayName != nil {
		add(p.PrimaryTypeDisplayName.Text)
	}
	if p.DisplayName != nil {
		add(p.DisplayName.Text)
	}
	add(p.Name)

	return fields
}

func fallbackCategory(p place.RawPlace) string {
	for _, extract := range fallbackExtractors {
		if v := extract(p); v != "" {
			return v
		}
	}
	return defaultCategoryName
}
