package activity

import "strings"

type Kind string

const (
	KindSearch    Kind = "search"
	KindDirection Kind = "direction"
	KindView      Kind = "view"
)

const (
	searchMarker    = "Searched"
	directionMarker = "Directions to"

	searchPrefix    = "Searched for "
	directionPrefix = "Directions to"
	viewPrefix      = "Viewed area around"
)

// excludedViews are navigation noise rather than interest in a place.
var excludedViews = map[string]struct{}{
	"Used Maps":               {},
	"Explored on Google Maps": {},
	"Viewed your Timeline":    {},
}

type ClassifiedRecord struct {
	Record
	Kind         Kind   `json:"kind"`
	TitleCleaned string `json:"title_cleaned"`
}

// Classify tags a record with its kind and cleaned title. ok is false for
// excluded view records. "Directions to" wins over "Searched" when a title
// carries both.
func Classify(rec Record) (ClassifiedRecord, bool) {
	var kind Kind
	switch {
	case strings.Contains(rec.Title, directionMarker):
		kind = KindDirection
	case strings.Contains(rec.Title, searchMarker):
		kind = KindSearch
	default:
		kind = KindView
		if _, skip := excludedViews[rec.Title]; skip {
			return ClassifiedRecord{}, false
		}
	}
	return ClassifiedRecord{Record: rec, Kind: kind, TitleCleaned: CleanTitle(kind, rec.Title)}, true
}

// CleanTitle removes the first occurrence of the kind's verb prefix. The
// remainder is kept verbatim, including any leading space.
func CleanTitle(kind Kind, title string) string {
	var prefix string
	switch kind {
	case KindSearch:
		prefix = searchPrefix
	case KindDirection:
		prefix = directionPrefix
	default:
		prefix = viewPrefix
	}
	return strings.Replace(title, prefix, "", 1)
}
