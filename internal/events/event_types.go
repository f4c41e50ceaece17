package events

// EventType enumerates domain events emitted by the content core.
type EventType string

const (
	EventContentCreated EventType = "content.created"
	EventContentUpdated EventType = "content.updated"
	EventContentDeleted EventType = "content.deleted"
	EventMediaOrphaned  EventType = "media.orphaned"
	EventCodeIssued     EventType = "auth.code_issued"
	EventStaffSignedIn  EventType = "auth.staff_signed_in"
)

// Event carries a typed payload to subscribers.
type Event struct {
	Type     EventType
	Kind     string
	EntityID string
	Actor    string
	Payload  any
}

// ContentChangedPayload accompanies create/update/delete events.
type ContentChangedPayload struct {
	Status       string
	Category     string
	LocaleCount  int
	MediaRemoved int
}

// MediaOrphanedPayload identifies an external object left behind by a failed
// delete or a post-upload insert failure.
type MediaOrphanedPayload struct {
	ExternalID string
	Reason     string
}

// CodeIssuedPayload accompanies one-time-code issuance.
type CodeIssuedPayload struct {
	StaffID string
	TTL     string
}

// SignedInPayload accompanies successful sign-ins.
type SignedInPayload struct {
	StaffID   string
	SessionID string
	Method    string
}
