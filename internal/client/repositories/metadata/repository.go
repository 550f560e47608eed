// Package metadata stores small key/value records in the local session
// database. The session mirror keeps the credential's token and email here.
package metadata

import "context"

// Repository is a key/value view over the metadata table.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
