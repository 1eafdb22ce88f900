package session

import "context"

// Store defines how sessions are persisted and retrieved. Implementations
// must distinguish "not found" (nil, nil) from infrastructure failure
// (nil, err): callers treat the former as an ordinary unauthenticated state
// and the latter as an outage that must surface.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Refresh(ctx context.Context, s Session) error
	Delete(ctx context.Context, token string) error
}
