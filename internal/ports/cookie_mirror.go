package ports

import (
	"context"
	"time"
)

// CookieMirror keeps a short-lived presence marker next to the session record.
type CookieMirror interface {
	Set(ctx context.Context, name string, maxAge time.Duration) error
	Clear(ctx context.Context, name string) error
	Present(ctx context.Context, name string) (bool, error)
}
