package models

import "github.com/google/uuid"

// PlatformID identifies the conferencing product a page belongs to.
type PlatformID string

const (
	PlatformGoogleMeet PlatformID = "google_meet"
	PlatformZoomWeb    PlatformID = "zoom_web"
	PlatformUnknown    PlatformID = "unknown"
)

// Message types understood on the transport.
const (
	TypeGetMeetingContext       = "GET_MEETING_CONTEXT"
	TypeContentPlatformDetected = "CONTENT_PLATFORM_DETECTED"
)

// Message is an inbound request envelope. Only Type drives dispatch.
type Message struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
}

// NewQuery builds a GET_MEETING_CONTEXT request with a fresh id.
func NewQuery() Message {
	return Message{ID: uuid.NewString(), Type: TypeGetMeetingContext}
}

type MeetingSnapshot struct {
	Platform      PlatformID `json:"platform"`
	PlatformLabel string     `json:"platformLabel"`
	Title         string     `json:"title"`
	Participants  []string   `json:"participants"`
	URL           string     `json:"url"`
	Error         string     `json:"error,omitempty"`
}

// Announcement is sent once per page load for recognised platforms.
type Announcement struct {
	Type          string     `json:"type"`
	Platform      PlatformID `json:"platform"`
	PlatformLabel string     `json:"platformLabel"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
}

// PageRef points at a page to snapshot: a live URL, optionally backed by a
// saved HTML file.
type PageRef struct {
	URL  string `json:"url"`
	File string `json:"file,omitempty"`
}

// PageResult pairs a page reference with its snapshot or failure.
type PageResult struct {
	URL      string           `json:"url"`
	Snapshot *MeetingSnapshot `json:"snapshot,omitempty"`
	FetchMs  int64            `json:"fetchMs,omitempty"`
	Error    string           `json:"error,omitempty"`
}
