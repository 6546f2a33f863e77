package repository

import (
	"context"
	"fmt"

	"ohs-consultant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const faqInsertBatch = 500

var faqColumns = []string{
	"id", "position", "question", "short_answer", "legal_reference", "legal_url", "block", "current_as_of", "created_at",
}

type FAQRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFAQRepository(db *pgxpool.Pool, logger *zap.Logger) *FAQRepository {
	return &FAQRepository{
		db:     db,
		logger: logger,
	}
}

func insertFAQQuery(records []*models.FAQRecord) squirrel.InsertBuilder {
	builder := squirrel.Insert("faq_entries").
		Columns(faqColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, rec := range records {
		builder = builder.Values(rec.ID, rec.Position, rec.Question, rec.ShortAnswer, rec.LegalReference,
			rec.LegalURL, rec.Block, rec.CurrentAsOf, rec.CreatedAt)
	}
	return builder
}

// ReplaceAll swaps the whole table content in one transaction.
func (r *FAQRepository) ReplaceAll(ctx context.Context, records []*models.FAQRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM faq_entries"); err != nil {
		return fmt.Errorf("failed to clear faq_entries: %w", err)
	}

	for start := 0; start < len(records); start += faqInsertBatch {
		end := start + faqInsertBatch
		if end > len(records) {
			end = len(records)
		}

		sql, args, err := insertFAQQuery(records[start:end]).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to insert FAQ batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit FAQ import: %w", err)
	}

	r.logger.Info("FAQ entries replaced", zap.Int("count", len(records)))
	return nil
}

func (r *FAQRepository) List(ctx context.Context) ([]*models.FAQRecord, error) {
	query := squirrel.Select(faqColumns...).
		From("faq_entries").
		OrderBy("position").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.FAQRecord
	for rows.Next() {
		var rec models.FAQRecord
		if err := rows.Scan(
			&rec.ID, &rec.Position, &rec.Question, &rec.ShortAnswer, &rec.LegalReference,
			&rec.LegalURL, &rec.Block, &rec.CurrentAsOf, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
