package ports

import (
	"context"
	"time"
)

// ObjectStore uploads a finished result archive and produces a time-limited
// download URL for it.
type ObjectStore interface {
	Upload(ctx context.Context, key string, localPath string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
