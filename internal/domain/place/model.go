// internal/domain/place/model.go

package place

// Location represents a geographic point
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationBuffer is a rectangle approximating a radius around a point
type LocationBuffer struct {
	Low  Location `json:"low"`
	High Location `json:"high"`
}

// LocalizedText is the upstream {text, languageCode} pair
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// RawLocation keeps coordinates optional so missing values can be detected
type RawLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// OpeningHours is the subset of upstream opening hours we read
type OpeningHours struct {
	OpenNow *bool `json:"openNow,omitempty"`
}

// PhotoRef is an upstream photo handle
type PhotoRef struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx,omitempty"`
	HeightPx int    `json:"heightPx,omitempty"`
}

// RawPlace is an unvalidated place record from the upstream API.
// Every field is optional.
type RawPlace struct {
	ID                     string         `json:"id,omitempty"`
	Name                   string         `json:"name,omitempty"`
	DisplayName            *LocalizedText `json:"displayName,omitempty"`
	PrimaryType            string         `json:"primaryType,omitempty"`
	PrimaryTypeDisplayName *LocalizedText `json:"primaryTypeDisplayName,omitempty"`
	Types                  []string       `json:"types,omitempty"`
	Location               *RawLocation   `json:"location,omitempty"`
	RegularOpeningHours    *OpeningHours  `json:"regularOpeningHours,omitempty"`
	CurrentOpeningHours    *OpeningHours  `json:"currentOpeningHours,omitempty"`
	Photos                 []PhotoRef     `json:"photos,omitempty"`
	Rating                 *float64       `json:"rating,omitempty"`
	UserRatingCount        *int           `json:"userRatingCount,omitempty"`
	PriceLevel             string         `json:"priceLevel,omitempty"`
	BusinessStatus         string         `json:"businessStatus,omitempty"`
	Takeout                *bool          `json:"takeout,omitempty"`
	Delivery               *bool          `json:"delivery,omitempty"`
	DineIn                 *bool          `json:"dineIn,omitempty"`
	OutdoorSeating         *bool          `json:"outdoorSeating,omitempty"`
	ServesBeer             *bool          `json:"servesBeer,omitempty"`
	ServesWine             *bool          `json:"servesWine,omitempty"`
	ServesCoffee           *bool          `json:"servesCoffee,omitempty"`
	ServesVegetarianFood   *bool          `json:"servesVegetarianFood,omitempty"`
}

// SimplifiedPlace is the internal representation cached and returned to callers
type SimplifiedPlace struct {
	ID       string   `json:"id"`
	Location Location `json:"location"`
	Emoji    string   `json:"emoji"`
	Category string   `json:"category,omitempty"`
}

// IsEmpty reports whether the record is the placeholder produced for invalid input
func (p SimplifiedPlace) IsEmpty() bool {
	return p.ID == ""
}

// FilterStatistics accumulates per-batch normalization counters
type FilterStatistics struct {
	NoKeywordMatch       int `json:"noKeywordMatch"`
	DefaultedToPlace     int `json:"defaultedToPlace"`
	MappedToMainCategory int `json:"mappedToMainCategory"`
	NoEmoji              int `json:"noEmoji"`
}

// Envelope is the uniform response returned by both pipelines
type Envelope[T any] struct {
	Data          []T    `json:"data"`
	Count         int    `json:"count"`
	CacheHit      bool   `json:"cacheHit"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// NewEnvelope wraps data with its count
func NewEnvelope[T any](data []T, cacheHit bool) Envelope[T] {
	if data == nil {
		data = []T{}
	}
	return Envelope[T]{
		Data:     data,
		Count:    len(data),
		CacheHit: cacheHit,
	}
}
