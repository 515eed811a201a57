package models

import "time"

// Platform constants for registered devices
const (
	PlatformKiosk   = "kiosk"
	PlatformWeb     = "web"
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// Request types

// VoteRequest carries one completed selection.
// items is ordered; language is the tag the voter was browsing in.
type VoteRequest struct {
	Items    []string `json:"items"`
	Language string   `json:"language"`
}

type RegisterDeviceRequest struct {
	Platform string `json:"platform"`
}

// Response types

type VoteResponse struct {
	Success bool           `json:"success"`
	VoteID  string         `json:"vote_id"`
	Votes   map[string]int `json:"votes"`
}

type ClearCountsResponse struct {
	Success bool `json:"success"`
	Removed int  `json:"removed"`
}

// ConfigResponse is what kiosks read at startup.
type ConfigResponse struct {
	ResetSelectionTimeoutSeconds int `json:"reset_selection_timeout_seconds"`
	MaxSelections                int `json:"max_selections"`
	TotalItems                   int `json:"total_items"`
}

type CatalogEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type CatalogResponse struct {
	Language string         `json:"language"`
	Items    []CatalogEntry `json:"items"`
}

// CloudWord is one sized word of the word cloud.
type CloudWord struct {
	ItemID string  `json:"item_id"`
	Label  string  `json:"label"`
	Size   float64 `json:"size"`
	Count  int     `json:"count"`
}

type CloudResponse struct {
	Language   string      `json:"language"`
	RTL        bool        `json:"rtl"`
	TotalVotes int         `json:"total_votes"`
	Words      []CloudWord `json:"words"`
}

type RegisterDeviceResponse struct {
	DeviceID string `json:"device_id"`
	IsNew    bool   `json:"is_new"`
}

// Domain types

type DeviceInfo struct {
	ID         string    `json:"id"`
	Platform   string    `json:"platform"`
	VoteCount  int       `json:"vote_count"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	Language    string    `json:"language"`
	DeviceID    *string   `json:"device_id,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	UserAgent   *string   `json:"-"` // Never expose in JSON
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
