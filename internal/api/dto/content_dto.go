package dto

import "time"

// Envelope is the uniform success wrapper for all responses.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps data in a success envelope.
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// TranslationPayload is one locale's text.
type TranslationPayload struct {
	Locale string `json:"locale"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// ContentWriteRequest creates or replaces an entity with its translations.
type ContentWriteRequest struct {
	Status       string               `json:"status"`
	Category     string               `json:"category"`
	Translations []TranslationPayload `json:"translations"`
}

// ContentListQuery captures list/search query parameters.
type ContentListQuery struct {
	Search      string `query:"search"`
	Locale      string `query:"locale"`
	Status      string `query:"status"`
	Category    string `query:"category"`
	CreatedFrom string `query:"created_from"`
	CreatedTo   string `query:"created_to"`
	Page        int    `query:"page"`
	Limit       int    `query:"limit"`
}

// ContentEntityResponse is the list/detail view of an entity.
type ContentEntityResponse struct {
	ID             string    `json:"id"`
	OwnerStaffID   string    `json:"owner_staff_id"`
	UpdaterStaffID *string   `json:"updater_staff_id,omitempty"`
	Status         string    `json:"status"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TranslationResponse is the stored view of one translation.
type TranslationResponse struct {
	Locale string `json:"locale"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// MediaResponse is the stored view of one media attachment.
type MediaResponse struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ExternalID  string `json:"external_id"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// ContentDetailResponse joins entity, translations, and media.
type ContentDetailResponse struct {
	Entity       ContentEntityResponse `json:"entity"`
	Translations []TranslationResponse `json:"translations"`
	Media        []MediaResponse       `json:"media"`
}

// PageResponse is the pagination envelope for list endpoints.
type PageResponse struct {
	Items      []ContentEntityResponse `json:"items"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
}
