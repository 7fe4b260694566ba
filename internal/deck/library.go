package deck

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches deck definition files when no pattern is configured.
var DefaultInclude = []string{"**/*.json"}

// Library scans a directory for deck JSON files and serves the catalog.
type Library struct {
	Root          string
	Include       []string
	Exclude       []string
	DefaultDeckID string
}

// NewLibrary returns a Library rooted at dir with the default include set.
func NewLibrary(dir string) *Library {
	return &Library{Root: dir, Include: DefaultInclude}
}

// Scan walks the library root and returns the deck catalog. Each matching
// JSON file that parses as a deck becomes one entry; files that do not parse
// are skipped. Entries are sorted by id for a stable catalog.
func (l *Library) Scan() (Catalog, error) {
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return Catalog{}, fmt.Errorf("library: resolve root: %w", err)
	}

	include := l.Include
	if len(include) == 0 {
		include = DefaultInclude
	}

	var entries []CatalogEntry

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !matchesAny(relPath, include) || matchesAny(relPath, l.Exclude) {
			return nil
		}

		deck, err := readDeckFile(path)
		if err != nil {
			return nil
		}

		id := deck.DeckID
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		entries = append(entries, CatalogEntry{
			ID:          id,
			Title:       deck.DeckTitle,
			File:        filepath.ToSlash(relPath),
			Description: deck.DeckGoal,
		})
		return nil
	})
	if err != nil {
		return Catalog{}, fmt.Errorf("library: scan %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	defaultID := l.DefaultDeckID
	if defaultID == "" && len(entries) > 0 {
		defaultID = entries[0].ID
	}
	return Catalog{Decks: entries, DefaultDeckID: defaultID}, nil
}

// Resolve finds the library file for a deck id and parses it. An empty id
// resolves to the catalog's default deck.
func (l *Library) Resolve(deckID string) (Deck, error) {
	catalog, err := l.Scan()
	if err != nil {
		return Deck{}, err
	}
	if deckID == "" {
		deckID = catalog.DefaultDeckID
	}
	for _, entry := range catalog.Decks {
		if entry.ID == deckID {
			d, err := readDeckFile(filepath.Join(l.Root, filepath.FromSlash(entry.File)))
			if err != nil {
				return Deck{}, fmt.Errorf("library: loading deck %s: %w", deckID, err)
			}
			if d.DeckID == "" {
				d.DeckID = entry.ID
			}
			return d, nil
		}
	}
	return Deck{}, fmt.Errorf("library: unknown deck %q", deckID)
}

func readDeckFile(path string) (Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, err
	}
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return Deck{}, err
	}
	if len(d.Slides) == 0 {
		return Deck{}, fmt.Errorf("no slides in %s", filepath.Base(path))
	}
	d.Normalize()
	return d, nil
}

// matchesAny checks relPath against glob patterns, matching the full
// slash-normalized path and the bare filename.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
