package domain

import "time"

// ContentStatus enumerates publication states shared by all content kinds.
// StatusDefault is a sentinel meaning "no filter" in search parameters.
type ContentStatus string

const (
	StatusDefault   ContentStatus = "DEFAULT"
	StatusDraft     ContentStatus = "DRAFT"
	StatusPublished ContentStatus = "PUBLISHED"
	StatusArchived  ContentStatus = "ARCHIVED"
)

// Kind describes one manageable content kind and its table mapping. The four
// kinds share one column layout; only table names differ.
type Kind struct {
	Name             string
	Table            string
	TranslationTable string
	MediaTable       string
}

var (
	KindFaq = Kind{
		Name:             "faq",
		Table:            "faqs",
		TranslationTable: "faq_translations",
		MediaTable:       "faq_media",
	}
	KindNews = Kind{
		Name:             "news",
		Table:            "news",
		TranslationTable: "news_translations",
		MediaTable:       "news_media",
	}
	KindCareer = Kind{
		Name:             "career",
		Table:            "careers",
		TranslationTable: "career_translations",
		MediaTable:       "career_media",
	}
	KindBulletinBoard = Kind{
		Name:             "bulletin_board",
		Table:            "bulletin_boards",
		TranslationTable: "bulletin_board_translations",
		MediaTable:       "bulletin_board_media",
	}
)

// Kinds lists all registered content kinds.
var Kinds = []Kind{KindFaq, KindNews, KindCareer, KindBulletinBoard}

// KindByName resolves a kind descriptor from its route name.
func KindByName(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// ContentEntity is the shared entity row of the four content kinds.
type ContentEntity struct {
	ID             string
	OwnerStaffID   string
	UpdaterStaffID *string
	Status         ContentStatus
	Category       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Translation holds one locale's text for a content entity. The set of
// translations is always replaced as a whole, never merged.
type Translation struct {
	ID        string
	EntityID  string
	Locale    string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MediaAttachment references an object held by the external storage provider.
// The relational store cascades these rows with the entity; the external
// object must be released explicitly.
type MediaAttachment struct {
	ID          string
	EntityID    string
	URL         string
	ExternalID  string
	ContentType string
	SizeBytes   int64
	Width       int
	Height      int
	CreatedAt   time.Time
}
