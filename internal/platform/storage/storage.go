// Package storage holds the durable backings for the client's session
// credential. Every backing applies Set and Delete to all given fields at
// once, so readers never observe a partial write.
package storage

import "context"

type Backend interface {
	// Get returns the subset of keys that are present.
	Get(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, fields map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}
