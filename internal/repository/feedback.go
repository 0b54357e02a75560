package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/PolicyFinder/internal/models"
	"github.com/atinyakov/PolicyFinder/internal/postgrest"
)

// RestFeedbackRepository writes feedback rows through the REST API.
type RestFeedbackRepository struct {
	Client *postgrest.Client
}

// NewRestFeedbackRepository creates a RestFeedbackRepository using client.
func NewRestFeedbackRepository(client *postgrest.Client) *RestFeedbackRepository {
	return &RestFeedbackRepository{Client: client}
}

// InsertFeedback writes one feedback row.
func (r *RestFeedbackRepository) InsertFeedback(ctx context.Context, fb models.Feedback) error {
	if err := r.Client.Insert(ctx, feedbackTable, fb); err != nil {
		return fmt.Errorf("InsertFeedback: %w", err)
	}
	return nil
}

// PostgresFeedbackRepository writes feedback rows straight into PostgreSQL.
type PostgresFeedbackRepository struct {
	DB *sql.DB
}

// NewPostgresFeedbackRepository creates a PostgresFeedbackRepository using db.
func NewPostgresFeedbackRepository(db *sql.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{DB: db}
}

// InsertFeedback writes one feedback row; created_at is filled by the database.
func (r *PostgresFeedbackRepository) InsertFeedback(ctx context.Context, fb models.Feedback) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO feedback (comment, policy_id) VALUES ($1, $2)`,
		fb.Comment, nullableID(fb.PolicyID),
	)
	if err != nil {
		return fmt.Errorf("InsertFeedback: %w", err)
	}
	return nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
