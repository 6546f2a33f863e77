package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ohs-consultant/internal/models"
)

// Source produces a complete FAQ corpus.
type Source interface {
	Load(ctx context.Context) ([]FAQEntry, error)
	Name() string
}

// FileSource reads the FAQ JSON document: a flat array of FAQEntry records.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

func (s *FileSource) Load(_ context.Context) ([]FAQEntry, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read FAQ file: %w", err)
	}
	return ParseEntries(data)
}

// ParseEntries decodes the FAQ document format.
func ParseEntries(data []byte) ([]FAQEntry, error) {
	var entries []FAQEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse FAQ document: %w", err)
	}
	return entries, nil
}

// FAQStore is the persistence side of RepositorySource.
type FAQStore interface {
	List(ctx context.Context) ([]*models.FAQRecord, error)
}

// RepositorySource reads the corpus imported into the faq_entries table.
type RepositorySource struct {
	store FAQStore
}

func NewRepositorySource(store FAQStore) *RepositorySource {
	return &RepositorySource{store: store}
}

func (s *RepositorySource) Name() string {
	return "database:faq_entries"
}

func (s *RepositorySource) Load(ctx context.Context) ([]FAQEntry, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list FAQ records: %w", err)
	}

	entries := make([]FAQEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, FAQEntry{
			Question:       r.Question,
			ShortAnswer:    r.ShortAnswer,
			LegalReference: r.LegalReference,
			LegalURL:       r.LegalURL,
			Block:          r.Block,
			CurrentAsOf:    r.CurrentAsOf,
		})
	}
	return entries, nil
}
