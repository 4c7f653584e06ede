package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/submm-lab/specsens/internal/atmosphere"
	"github.com/submm-lab/specsens/internal/sensitivity"
	"github.com/submm-lab/specsens/internal/storage"
)

// Run executes the selected mode: list or re-print stored sessions, or run a
// synthesis, print it, and optionally persist and export it.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	switch {
	case config.ListSessions:
		return listSessions(ctx, config)
	case config.SessionID > 0:
		return printStored(ctx, config)
	default:
		return synthesize(ctx, config, logger)
	}
}

func synthesize(ctx context.Context, config *Config, logger *slog.Logger) error {
	grid, err := atmosphere.Shared(config.Atmosphere.GridFile)
	if err != nil {
		return err
	}

	synth := sensitivity.New(atmosphere.NewModel(grid), sensitivity.WithLogger(logger))

	table, err := synth.Synthesize(config.Parameters)
	if err != nil {
		return fmt.Errorf("synthesizing sensitivity: %w", err)
	}

	logger.Info("synthesis finished",
		slog.String("instrument", config.Instrument),
		slog.Int("rows", len(table)),
	)

	if err = printTable(os.Stdout, table); err != nil {
		return err
	}

	if config.CSVFile != "" {
		if err = writeCSV(config.CSVFile, table); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		logger.Info("result table exported", slog.String("destination", config.CSVFile))
	}

	if config.Storage.DBFile != "" {
		if err = persist(ctx, config, table); err != nil {
			return fmt.Errorf("storing results: %w", err)
		}
		logger.Info("result table stored", slog.String("database", config.Storage.DBFile))
	}

	return nil
}

func persist(ctx context.Context, config *Config, table sensitivity.Table) (err error) {
	store := storage.NewSqliteStore(config.Storage.DBFile)
	defer closeWithError(store, &err)

	params, err := json.Marshal(config.Parameters)
	if err != nil {
		return fmt.Errorf("marshaling parameters: %w", err)
	}

	sessionID, err := store.CreateSession(ctx, config.Instrument, params)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	return store.StoreResults(ctx, sessionID, table)
}

func listSessions(ctx context.Context, config *Config) (err error) {
	store := storage.NewSqliteStore(config.Storage.DBFile)
	defer closeWithError(store, &err)

	sessions, err := store.Sessions(ctx)
	if err != nil {
		return err
	}

	return printSessions(os.Stdout, sessions)
}

func printStored(ctx context.Context, config *Config) (err error) {
	store := storage.NewSqliteStore(config.Storage.DBFile)
	defer closeWithError(store, &err)

	table, err := store.Results(ctx, config.SessionID)
	if err != nil {
		return err
	}
	if len(table) == 0 {
		return fmt.Errorf("session %d has no stored results", config.SessionID)
	}

	if err = printTable(os.Stdout, table); err != nil {
		return err
	}

	if config.CSVFile != "" {
		return writeCSV(config.CSVFile, table)
	}
	return nil
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
