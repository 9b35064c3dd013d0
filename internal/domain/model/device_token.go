package model

import "time"

// DeviceToken maps a client identity to its push delivery address.
// A user holds at most one token; re-registering replaces the old one.
type DeviceToken struct {
	UserID       string    `json:"user_id"`
	Token        string    `json:"token"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Preview returns a shortened form of the token safe for logs and
// admin listings.
func (t DeviceToken) Preview() string {
	if len(t.Token) <= 20 {
		return t.Token
	}
	return t.Token[:20] + "..."
}
