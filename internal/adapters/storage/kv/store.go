package kv

import "context"

// Well-known keys.
const (
	KeyBearerToken = "bearer_token"
	KeyUserID      = "user_id"
	KeyUserName    = "user_name"
)

// Store is a small key-value persistence boundary for the bearer token and
// the current user identity. A missing or malformed value reads as absent
// (empty string), never as an error the caller must handle.
type Store interface {
	Get(ctx context.Context, key string) string
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
