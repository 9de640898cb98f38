package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
)

// Load assembles the working document set: one Document per matching file in
// the knowledge directory, or the built-in defaults when the directory is
// missing or empty, plus the preset extension set when enabled.
func Load(cfg config.KnowledgeConfig, log *zap.Logger) []Document {
	docs := loadDir(cfg.Dir, cfg.Patterns, log)
	if len(docs) == 0 {
		docs = DefaultDocuments()
		log.Info("using built-in knowledge documents",
			zap.String("dir", cfg.Dir),
			zap.Int("count", len(docs)))
	} else {
		log.Info("loaded knowledge documents",
			zap.String("dir", cfg.Dir),
			zap.Int("count", len(docs)))
	}

	if cfg.IncludePresets {
		docs = append(docs, PresetDocuments()...)
	}

	return docs
}

// loadDir reads every matching file in dir. Filenames are sorted first so
// storage order is stable across platforms.
func loadDir(dir string, patterns []string, log *zap.Logger) []Document {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	if len(patterns) == 0 {
		patterns = config.DefaultPatterns
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !matchesAny(e.Name(), patterns) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []Document
	for _, name := range names {
		doc, err := parseFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("skipping knowledge file", zap.String("file", name), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}

	return docs
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// parseFile turns one file into one Document. JSON files carry their own
// title and content; markdown and plain text take their title from a leading
// "# " heading when present, otherwise from the filename.
func parseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		if doc.Title == "" || doc.Body == "" {
			return Document{}, fmt.Errorf("parse %s: missing title or content", filepath.Base(path))
		}
		return doc, nil
	}

	name := filepath.Base(path)
	body := strings.TrimSpace(string(data))
	if body == "" {
		return Document{}, fmt.Errorf("parse %s: empty file", name)
	}

	title := strings.TrimSuffix(name, filepath.Ext(name))
	if first, rest, _ := strings.Cut(body, "\n"); strings.HasPrefix(first, "# ") {
		heading := strings.TrimSpace(strings.TrimPrefix(first, "# "))
		rest = strings.TrimSpace(rest)
		if heading != "" && rest != "" {
			title = heading
			body = rest
		}
	}

	return Document{Title: title, Body: body}, nil
}
