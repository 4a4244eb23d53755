package records

import "context"

// Repository is the persistence contract for user_message rows.
type Repository interface {
	Create(ctx context.Context, rec *Record) (*Record, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	GetByEmail(ctx context.Context, email string) (*Record, error)

	// ListWithImage returns all rows whose message image is set, newest
	// first. Per-user deduplication happens above the repository.
	ListWithImage(ctx context.Context) ([]*Record, error)

	// UpdateMessage rewrites the message fields of the user's row in
	// place. It never inserts.
	UpdateMessage(ctx context.Context, userID, name, text, imageRef string) (*Record, error)

	// ClearMessageImage NULLs the message image only, leaving text and
	// identity fields untouched (soft delete).
	ClearMessageImage(ctx context.Context, userID string) error

	// UpdateProfile rewrites identity fields. Empty values keep the
	// stored ones.
	UpdateProfile(ctx context.Context, id, name, avatarURL, passwordHash string) (*Record, error)
}
