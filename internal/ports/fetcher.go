package ports

import "context"

// Fetcher returns the raw body of a remote or local JSON source.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}
