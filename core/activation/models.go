package activation

import "time"

// Code is a one-time token authorizing a new school registration.
// It transitions used=false -> used=true exactly once, at successful
// registration; it is never reused or deleted.
type Code struct {
	Code      string    `json:"code"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
