package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no blob exists under a key.
// Callers treat it as "no prior data", never as a fatal condition.
var ErrNotFound = errors.New("blob not found")

type PutOptions struct {
	ContentType string
	// max-age in seconds for the Cache-Control header, 0 means none
	CacheControlSeconds int
	Public              bool
}

// Store is the object storage the pipeline publishes to and reads
// prior history from.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte, opts PutOptions) error
}
