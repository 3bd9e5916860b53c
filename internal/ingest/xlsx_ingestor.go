package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/sales-tracker/internal/common"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
	"github.com/joseph-ayodele/sales-tracker/internal/schema"
)

// XLSXIngestor reads the first worksheet (or a named one) of an Excel workbook.
type XLSXIngestor struct {
	SheetName string // empty -> first sheet
	MaxBytes  int64  // 0 -> unlimited
	logger    *slog.Logger
}

func NewXLSXIngestor(sheetName string, maxBytes int64, logger *slog.Logger) *XLSXIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXIngestor{SheetName: sheetName, MaxBytes: maxBytes, logger: logger}
}

func (i *XLSXIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return IngestionResult{}, err
	}
	if err := i.checkExt(abs); err != nil {
		return IngestionResult{}, err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		i.logger.Error("ingest.read.failed", "path", abs, "err", err)
		return IngestionResult{}, err
	}
	res, err := i.IngestBytes(ctx, filepath.Base(abs), content)
	res.SourcePath = abs
	return res, err
}

func (i *XLSXIngestor) IngestBytes(ctx context.Context, filename string, content []byte) (IngestionResult, error) {
	start := time.Now()
	if err := i.checkExt(filename); err != nil {
		return IngestionResult{}, err
	}
	if len(content) == 0 {
		return IngestionResult{}, common.NewAppError(common.CodeInvalidFile, "file is empty", common.ErrInvalidInput)
	}
	if i.MaxBytes > 0 && int64(len(content)) > i.MaxBytes {
		return IngestionResult{}, common.NewAppError(common.CodeInvalidFile,
			fmt.Sprintf("file is %d bytes, limit is %d", len(content), i.MaxBytes), common.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return IngestionResult{}, err
	}

	sum := sha256.Sum256(content)
	sheet, err := i.readSheet(ctx, content)
	if err != nil {
		i.logger.Error("ingest.xlsx.failed", "filename", filename, "err", err)
		return IngestionResult{}, err
	}

	out := IngestionResult{
		Filename:   filename,
		FileExt:    filepath.Ext(filename),
		HashHex:    hex.EncodeToString(sum[:]),
		Size:       int64(len(content)),
		UploadedAt: time.Now().UTC(),
		Sheet:      sheet,
	}
	i.logger.Info("ingest.xlsx.ok",
		"filename", filename,
		"sheet", sheet.Name,
		"rows", len(sheet.Records),
		"hash", out.HashHex[:12],
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (i *XLSXIngestor) checkExt(name string) error {
	if !AllowedExt(filepath.Ext(name)) {
		return common.NewAppError(common.CodeInvalidFile,
			fmt.Sprintf("unsupported or missing extension on %q", filepath.Base(name)), common.ErrInvalidInput)
	}
	return nil
}

func (i *XLSXIngestor) readSheet(ctx context.Context, content []byte) (Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Sheet{}, common.NewAppError(common.CodeInvalidFile, "not a readable workbook", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	defer func() {
		if err := f.Close(); err != nil {
			i.logger.Warn("ingest.xlsx.close_failed", "err", err)
		}
	}()

	name := i.SheetName
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Sheet{}, common.NewAppError(common.CodeInvalidFile, "workbook has no sheets", common.ErrInvalidInput)
		}
		name = sheets[0]
	} else if idx, _ := f.GetSheetIndex(name); idx == -1 {
		return Sheet{}, common.NewAppError(common.CodeInvalidFile, fmt.Sprintf("sheet %q not found", name), common.ErrNotFound)
	}

	// Raw values keep dates as serial numbers instead of locale-formatted strings.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, fmt.Errorf("read rows of %q: %w", name, err)
	}

	out := Sheet{Name: name}
	if len(rows) == 0 {
		return out, nil
	}
	out.Headers = rows[0]
	keys := schema.NormalizeAll(rows[0])

	for idx, cells := range rows[1:] {
		if idx%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return Sheet{}, err
			}
		}
		if isBlankRow(cells) {
			continue
		}
		rec := entity.RawRecord{Row: idx + 2, Values: make(map[string]string, len(keys))}
		for col, key := range keys {
			if key == "" {
				continue
			}
			if _, seen := rec.Values[key]; seen {
				continue
			}
			if col < len(cells) {
				rec.Values[key] = cells[col]
			} else {
				rec.Values[key] = ""
			}
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}
