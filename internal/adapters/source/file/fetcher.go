package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/bnema/tackcheck/internal/ports"
)

// Fetcher reads a local JSON document, typically a mirror of the remote
// source kept next to the app.
type Fetcher struct {
	Path string
}

var _ ports.Fetcher = Fetcher{}

func (f Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("source path is required")
	}

	data, err := os.ReadFile(filepath.Clean(f.Path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("source file %q: %w", f.Path, domain.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("read source file %q: %w", f.Path, err)
	}

	return data, nil
}
