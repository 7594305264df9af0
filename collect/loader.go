package collect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dreamerjackson/confextract/batch"
)

// FileLoader reads documents from disk. Relative sources resolve against Dir.
type FileLoader struct {
	Dir string
}

func (l FileLoader) Load(_ context.Context, ref batch.Ref) (batch.Input, error) {
	path := ref.Source
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, path)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return batch.Input{}, fmt.Errorf("read document: %w", err)
	}

	return batch.Input{Source: ref.Source, Family: ref.Family, Body: body}, nil
}

// FetchLoader downloads documents whose source is a URL.
type FetchLoader struct {
	Fetcher Fetcher
	Cookie  string
}

func (l FetchLoader) Load(ctx context.Context, ref batch.Ref) (batch.Input, error) {
	body, err := l.Fetcher.Get(ctx, &Request{URL: ref.Source, Cookie: l.Cookie})
	if err != nil {
		return batch.Input{}, fmt.Errorf("fetch document: %w", err)
	}

	return batch.Input{Source: ref.Source, Family: ref.Family, Body: body}, nil
}

// MixedLoader sends http and https sources to Fetch and everything else to File.
type MixedLoader struct {
	File  FileLoader
	Fetch FetchLoader
}

func (l MixedLoader) Load(ctx context.Context, ref batch.Ref) (batch.Input, error) {
	if IsURL(ref.Source) {
		if l.Fetch.Fetcher == nil {
			return batch.Input{}, fmt.Errorf("fetch document: no fetcher configured for %s", ref.Source)
		}
		return l.Fetch.Load(ctx, ref)
	}

	return l.File.Load(ctx, ref)
}

func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
