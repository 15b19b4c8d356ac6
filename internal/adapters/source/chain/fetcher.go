package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/tackcheck/internal/ports"
)

var errNoFetchers = errors.New("no source fetchers configured")

// Fetcher tries each source in order and returns the first body obtained.
type Fetcher struct {
	sources []ports.Fetcher
}

var _ ports.Fetcher = (*Fetcher)(nil)

func NewFetcher(sources ...ports.Fetcher) *Fetcher {
	kept := make([]ports.Fetcher, 0, len(sources))
	for _, source := range sources {
		if source != nil {
			kept = append(kept, source)
		}
	}
	return &Fetcher{sources: kept}
}

func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if len(f.sources) == 0 {
		return nil, errNoFetchers
	}

	var errs []error
	for i, source := range f.sources {
		body, err := source.Fetch(ctx)
		if err == nil {
			return body, nil
		}
		if shouldSkipFallback(err) {
			return nil, err
		}
		errs = append(errs, fmt.Errorf("source %d: %w", i, err))
	}

	return nil, errors.Join(errs...)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
