package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"sjsage522/productscraper/internal/models"
	"sjsage522/productscraper/logger"
	scerrors "sjsage522/productscraper/pkg/errors"
)

// JSONStorage keeps all products in a single JSON array file
type JSONStorage struct {
	path string
	mu   sync.Mutex
	log  *logger.Logger
}

var _ ProductStorage = (*JSONStorage)(nil)

// NewJSONStorage creates a JSON file storage, creating its directory
func NewJSONStorage(path string) (*JSONStorage, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &JSONStorage{
		path: absPath,
		log:  logger.ForStorage(),
	}, nil
}

// Path returns the absolute path of the snapshot file
func (s *JSONStorage) Path() string {
	return s.path
}

// LoadAll reads the snapshot. A missing or empty file yields no products.
func (s *JSONStorage) LoadAll() ([]models.Product, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Product{}, nil
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, scerrors.NewDataCorruption("storage", "malformed snapshot "+s.path, err)
	}
	if products == nil {
		products = []models.Product{}
	}

	return products, nil
}

// SaveMerge loads the snapshot, replaces known products in place, appends
// unknown ones and rewrites the whole file.
func (s *JSONStorage) SaveMerge(products []models.Product) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.LoadAll()
	if err != nil {
		return 0, 0, err
	}

	index := make(map[string]int, len(existing))
	for i, p := range existing {
		index[p.ProductID] = i
	}

	merged := existing
	newCount, updatedCount := 0, 0

	for _, p := range products {
		if i, ok := index[p.ProductID]; ok {
			merged[i] = p
			updatedCount++
			continue
		}
		index[p.ProductID] = len(merged)
		merged = append(merged, p)
		newCount++
	}

	if err := s.writeAtomic(merged); err != nil {
		return 0, 0, err
	}

	s.log.Debug().
		Int("new", newCount).
		Int("updated", updatedCount).
		Int("total", len(merged)).
		Msg("Snapshot rewritten")

	return newCount, updatedCount, nil
}

// writeAtomic writes to a temp file in the same directory and renames it over the snapshot
func (s *JSONStorage) writeAtomic(products []models.Product) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(products, "", "    ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}

	return nil
}
