// Package fixtures reads seed data from JSON files on disk.
//
// The directory holds users.json and properties.json, each an object keyed by
// fixture id, and an optional reviews.json array.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"lightbnb/internal/domain"
)

type Loader struct{ dir string }

var _ domain.FixtureSource = (*Loader)(nil)

func New(dir string) *Loader { return &Loader{dir: dir} }

func (l *Loader) Users(ctx context.Context) (map[string]map[string]any, error) {
	var out map[string]map[string]any
	return out, l.read(ctx, "users.json", &out, true)
}

func (l *Loader) Properties(ctx context.Context) (map[string]map[string]any, error) {
	var out map[string]map[string]any
	return out, l.read(ctx, "properties.json", &out, true)
}

func (l *Loader) Reviews(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	return out, l.read(ctx, "reviews.json", &out, false)
}

func (l *Loader) read(ctx context.Context, name string, dst any, required bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(l.dir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read fixture %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return nil
}
