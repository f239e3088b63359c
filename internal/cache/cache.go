package cache

import (
	"context"
	"time"
)

// DocumentCache stores rendered invoice documents (HTML) keyed by bill
// number. Finalized invoices never change, so a cached document only expires
// by TTL.
type DocumentCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, document string, ttl time.Duration) error
}

type NoopDocumentCache struct{}

func (NoopDocumentCache) Get(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

func (NoopDocumentCache) Set(_ context.Context, _ string, _ string, _ time.Duration) error {
	return nil
}
