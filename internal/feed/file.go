package feed

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/taller-garcia/quote-sync/internal/model"
)

// FileSource reads line items from a local JSON file holding an array of
// feed records. Useful for replaying exported batches and in tests.
type FileSource struct {
	path string
}

// NewFileSource returns a FileSource reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and decodes the file.
func (s *FileSource) Fetch(_ context.Context) ([]model.LineItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "feed: read %s", s.path)
	}

	var records []model.FeedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "feed: decode %s", s.path)
	}

	return decodeRecords(records)
}

// decodeRecords converts wire records to line items, failing on the first
// malformed record so a bad batch is caught before any resolution starts.
func decodeRecords(records []model.FeedRecord) ([]model.LineItem, error) {
	items := make([]model.LineItem, 0, len(records))
	for _, rec := range records {
		item, err := rec.LineItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
