package records

import "time"

// Record is a single user_message row. The schema deliberately conflates a
// user's identity and their current wall message: each user owns exactly one
// row, message posts update it in place, and deleting a message only clears
// the image reference.
//
// Nullable columns (AvatarURL, Message, MessageImage) are represented as
// empty strings in Go and mapped to NULL at the SQL boundary.
type Record struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	AvatarURL    string
	Message      string
	MessageImage string
	CreatedAt    time.Time
}

// HasMessage reports whether the record currently carries a visible wall
// message (a message is only shown when it has an image).
func (r *Record) HasMessage() bool {
	return r.MessageImage != ""
}
