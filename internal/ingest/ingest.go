package ingest

import (
	"context"
	"time"

	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

// Sheet is the tabular content of one worksheet.
type Sheet struct {
	Name    string
	Headers []string // as written in the file
	Records []entity.RawRecord
}

// IngestionResult is the outcome of reading one spreadsheet.
type IngestionResult struct {
	SourcePath string
	Filename   string
	FileExt    string
	HashHex    string
	Size       int64
	UploadedAt time.Time
	Sheet      Sheet
}

// Ingestor is the behavior the session depends on.
type Ingestor interface {
	// IngestPath reads a spreadsheet from disk.
	IngestPath(ctx context.Context, path string) (IngestionResult, error)
	// IngestBytes reads an uploaded spreadsheet.
	IngestBytes(ctx context.Context, filename string, content []byte) (IngestionResult, error)
}
