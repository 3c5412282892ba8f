// internal/service/nearby/normalizer.go

package nearby

import (
	"log"
	"strings"

	"emojimap/internal/domain/place"
	"emojimap/internal/service/category"
)

// ParseKeywords splits a "|" separated query into trimmed, lowercased
// keywords, keeping their order
func ParseKeywords(textQuery string) []string {
	parts := strings.Split(textQuery, "|")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		kw := strings.ToLower(strings.TrimSpace(part))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// Normalizer converts upstream places into the internal shape
type Normalizer struct {
	resolver *category.Resolver
}

// NewNormalizer creates a normalizer; a nil resolver uses the default taxonomy
func NewNormalizer(resolver *category.Resolver) *Normalizer {
	if resolver == nil {
		resolver = category.NewResolver(nil)
	}
	return &Normalizer{resolver: resolver}
}

// ProcessGoogleResponse maps every raw place in order. Places that fail
// validation become empty placeholders so output indexes match input indexes.
func (n *Normalizer) ProcessGoogleResponse(raw []place.RawPlace, textQuery string) ([]place.SimplifiedPlace, place.FilterStatistics) {
	keywords := ParseKeywords(textQuery)
	stats := place.FilterStatistics{}

	out := make([]place.SimplifiedPlace, len(raw))
	for i, p := range raw {
		result, ok := n.resolver.Resolve(p, keywords, &stats)
		if !ok {
			continue
		}

		out[i] = place.SimplifiedPlace{
			ID: p.ID,
			Location: place.Location{
				Latitude:  *p.Location.Latitude,
				Longitude: *p.Location.Longitude,
			},
			Emoji:    result.Emoji,
			Category: result.Category,
		}
	}

	log.Printf("[places] normalized %d places for %q: noKeywordMatch=%d defaultedToPlace=%d mappedToMainCategory=%d noEmoji=%d",
		len(raw), textQuery, stats.NoKeywordMatch, stats.DefaultedToPlace, stats.MappedToMainCategory, stats.NoEmoji)

	return out, stats
}
