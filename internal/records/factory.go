package records

import (
	"context"
	"strings"
)

// NewStores creates postgres-backed stores when configured, otherwise in-memory.
func NewStores(ctx context.Context, databaseURL string) (*Stores, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryStores(), nil
	}
	return NewPostgresStores(ctx, databaseURL)
}
