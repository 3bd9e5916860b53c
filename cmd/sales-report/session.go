package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/common"
	"github.com/joseph-ayodele/sales-tracker/internal/export"
	"github.com/joseph-ayodele/sales-tracker/internal/ingest"
	"github.com/joseph-ayodele/sales-tracker/internal/pipeline"
	"github.com/joseph-ayodele/sales-tracker/internal/schema"
	"github.com/joseph-ayodele/sales-tracker/internal/session"
)

type options struct {
	file     string
	sheet    string
	aliases  string
	logLevel string
}

// openSession loads the workbook into a fresh local session. Contacts come from the
// workbook's own contact columns since a one-shot command has no register to fill.
func openSession(ctx context.Context, opts *options) (*session.Session, error) {
	if _, err := common.ParseLevel(opts.logLevel); err != nil {
		return nil, err
	}
	logger := common.NewLogger(os.Stderr, common.LogConfig{Level: opts.logLevel, Format: "text"})

	aliases, err := schema.LoadAliasFile(opts.aliases)
	if err != nil {
		return nil, fmt.Errorf("load aliases: %w", err)
	}
	sess, err := session.New(ctx, session.Deps{
		Ingestor:        ingest.NewXLSXIngestor(opts.sheet, 0, logger),
		Processor:       pipeline.NewProcessor(logger, aliases),
		Exporter:        export.NewService(logger),
		ContactSource:   constants.ContactSourceDataset,
		RegisterBackend: constants.RegisterBackendMemory,
	}, logger)
	if err != nil {
		return nil, err
	}
	if _, err := sess.UploadPath(ctx, opts.file); err != nil {
		_ = sess.Close()
		return nil, err
	}
	return sess, nil
}
