package crawler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"procurement-dashboard/models"
)

const (
	ArticlesFile = "articles.json"
	ThemesFile   = "themes.json"
)

// ReadArticles loads a previously written articles document. A missing or
// unreadable document is an empty collection.
func ReadArticles(path string) []models.Article {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out []models.Article
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// WriteDocuments writes articles.json and themes.json into dir.
func WriteDocuments(dir string, articles []models.Article, themes models.Themes) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if articles == nil {
		articles = []models.Article{}
	}
	if err := writeJSON(filepath.Join(dir, ArticlesFile), articles); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, ThemesFile), themes)
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Publish copies the data documents that exist in dataDir into siteDir and
// returns the names copied.
func Publish(dataDir, siteDir string) ([]string, error) {
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating site dir: %w", err)
	}
	var copied []string
	for _, name := range []string{ArticlesFile, ThemesFile} {
		raw, err := os.ReadFile(filepath.Join(dataDir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(siteDir, name), raw, 0o644); err != nil {
			return copied, fmt.Errorf("writing %s: %w", name, err)
		}
		copied = append(copied, name)
	}
	return copied, nil
}
