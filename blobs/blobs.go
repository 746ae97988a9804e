package blobs

// Blob is the single JSON document associated with one authenticated user.
// user_id is the primary key; screen_name is a secondary lookup index and
// both stay synchronized on every write.
type Blob struct {
	ScreenName string         `json:"screen_name"`
	UserID     int64          `json:"user_id"`
	Data       map[string]any `json:"data"`
}

// UserRef identifies a user that has a stored blob.
type UserRef struct {
	ScreenName string `json:"screen_name"`
	UserID     int64  `json:"user_id"`
}
