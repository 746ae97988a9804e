package token

import "time"

// AuthToken is an opaque bearer credential scoped to one verified
// (screen_name, user_id) pair. The id carries no structure: it is only
// meaningful as a lookup key in the store.
type AuthToken struct {
	ID         string    `json:"id"`
	ScreenName string    `json:"screen_name"`
	UserID     int64     `json:"user_id"`
	IssuedAt   time.Time `json:"issued_at"`
}
