package main

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"os"
	"time"

	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
	"ohs-consultant/internal/repository"
	"ohs-consultant/pkg/config"
	"ohs-consultant/pkg/logger"
	"ohs-consultant/pkg/postgres"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedHashKey stores the md5 of the last imported FAQ document.
const seedHashKey = "faq_seed_hash"

type seedOptions struct {
	file  string
	force bool
}

func main() {
	opts := &seedOptions{}

	rootCmd := &cobra.Command{
		Use:           "seed",
		Short:         "Import the FAQ document into PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	rootCmd.Flags().StringVarP(&opts.file, "file", "f", "", "FAQ JSON file (default FAQ_FILE_PATH)")
	rootCmd.Flags().BoolVar(&opts.force, "force", false, "import even if the file has not changed")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *seedOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Development); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	appLogger := logger.Component("seed")

	path := opts.file
	if path == "" {
		path = cfg.Knowledge.FilePath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	hash := fileHash(data)

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db, appLogger); err != nil {
		return err
	}

	settings := repository.NewSettingRepository(db, appLogger)
	faqRepo := repository.NewFAQRepository(db, appLogger)

	if !opts.force {
		stored, err := settings.Get(ctx, seedHashKey)
		switch {
		case err == nil && stored.Value == hash:
			appLogger.Info("FAQ document unchanged, skipping import",
				zap.String("file", path),
				zap.String("hash", hash),
			)
			return nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("failed to read seed hash: %w", err)
		}
	}

	entries, err := knowledge.ParseEntries(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	records := toRecords(entries, time.Now().UTC())
	if err := faqRepo.ReplaceAll(ctx, records); err != nil {
		return err
	}

	if err := settings.Set(ctx, seedHashKey, hash, "md5 of the last imported FAQ document"); err != nil {
		return fmt.Errorf("failed to store seed hash: %w", err)
	}

	appLogger.Info("FAQ imported",
		zap.String("file", path),
		zap.Int("entries", len(records)),
		zap.String("hash", hash),
	)
	return nil
}

func fileHash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// toRecords keeps document order in Position so the corpus loads back in the
// same order.
func toRecords(entries []knowledge.FAQEntry, now time.Time) []*models.FAQRecord {
	records := make([]*models.FAQRecord, 0, len(entries))
	for i, e := range entries {
		records = append(records, &models.FAQRecord{
			ID:             uuid.New(),
			Position:       i,
			Question:       e.Question,
			ShortAnswer:    e.ShortAnswer,
			LegalReference: e.LegalReference,
			LegalURL:       e.LegalURL,
			Block:          e.Block,
			CurrentAsOf:    e.CurrentAsOf,
			CreatedAt:      now,
		})
	}
	return records
}
