package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/ecokitchen/internal/db"
	"github.com/hpungsan/ecokitchen/internal/recipe"
)

// Source reads the raw recipe rows of a catalog.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	Load(ctx context.Context) ([]recipe.Recipe, error)
}

// OpenSource picks a Source for uri:
//
//	s3://bucket/key          CSV object in S3 (or an S3-compatible store)
//	sqlite://path, *.db      read-only SQLite database with a recipes table
//	file://path, other paths CSV file
func OpenSource(ctx context.Context, uri string, opts S3Options) (Source, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("catalog source is not configured")
	}

	switch {
	case strings.HasPrefix(uri, "s3://"):
		bucket, key, err := parseS3URI(uri)
		if err != nil {
			return nil, err
		}
		return NewS3Source(ctx, bucket, key, opts)
	case strings.HasPrefix(uri, "sqlite://"):
		return &SQLiteSource{Path: strings.TrimPrefix(uri, "sqlite://")}, nil
	case strings.HasPrefix(uri, "file://"):
		return &FileSource{Path: strings.TrimPrefix(uri, "file://")}, nil
	}

	switch strings.ToLower(filepath.Ext(uri)) {
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteSource{Path: uri}, nil
	}
	return &FileSource{Path: uri}, nil
}

// FileSource reads a CSV dataset from the local filesystem.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s *FileSource) Name() string { return s.Path }

// Load implements Source.
func (s *FileSource) Load(_ context.Context) ([]recipe.Recipe, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseCSV(f)
}

// SQLiteSource reads the recipes table of a catalog database built by
// `ecokitchen catalog import`.
type SQLiteSource struct {
	Path string
}

// Name implements Source.
func (s *SQLiteSource) Name() string { return "sqlite://" + s.Path }

// Load implements Source.
func (s *SQLiteSource) Load(ctx context.Context) ([]recipe.Recipe, error) {
	database, err := db.OpenReadOnly(s.Path)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	rows, err := db.ListRecipes(ctx, database)
	if err != nil {
		return nil, err
	}

	// Apply the same row rules as the CSV path.
	valid := make([]recipe.Recipe, 0, len(rows))
	for _, r := range rows {
		if recipe.NormalizeCategory(r.Category) == "" || strings.TrimSpace(r.Name) == "" {
			continue
		}
		valid = append(valid, r)
	}
	return valid, nil
}
