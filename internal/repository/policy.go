// Package repository provides read and write access to the policies and
// feedback tables, either through the hosted data service's REST API or
// directly against its PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/PolicyFinder/internal/models"
	"github.com/atinyakov/PolicyFinder/internal/postgrest"
)

const (
	policiesTable = "policies"
	feedbackTable = "feedback"

	listColumns = "id, title, description, target, region"
)

// RestPolicyRepository reads policies through the data service REST API.
type RestPolicyRepository struct {
	// Client is the configured REST client.
	Client *postgrest.Client
}

// NewRestPolicyRepository creates a RestPolicyRepository using client.
func NewRestPolicyRepository(client *postgrest.Client) *RestPolicyRepository {
	return &RestPolicyRepository{Client: client}
}

// ListPolicies returns every policy projected to the listing columns.
func (r *RestPolicyRepository) ListPolicies(ctx context.Context) ([]models.Policy, error) {
	var policies []models.Policy
	if err := r.Client.From(policiesTable).Select(listColumns).Execute(ctx, &policies); err != nil {
		return nil, fmt.Errorf("ListPolicies: %w", err)
	}
	if policies == nil {
		policies = []models.Policy{}
	}
	return policies, nil
}

// GetPolicy returns the full record with the given id, or models.ErrNotFound.
func (r *RestPolicyRepository) GetPolicy(ctx context.Context, id int64) (*models.Policy, error) {
	var policy models.Policy
	err := r.Client.From(policiesTable).Select("*").Eq("id", id).Single().Execute(ctx, &policy)
	if errors.Is(err, postgrest.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetPolicy: %w", err)
	}
	return &policy, nil
}

// PostgresPolicyRepository reads policies straight from PostgreSQL.
type PostgresPolicyRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresPolicyRepository creates a PostgresPolicyRepository using db.
func NewPostgresPolicyRepository(db *sql.DB) *PostgresPolicyRepository {
	return &PostgresPolicyRepository{DB: db}
}

// ListPolicies returns every policy projected to the listing columns.
func (r *PostgresPolicyRepository) ListPolicies(ctx context.Context) ([]models.Policy, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, description, target, region FROM policies
	`)
	if err != nil {
		return nil, fmt.Errorf("ListPolicies: %w", err)
	}
	defer rows.Close()

	policies := []models.Policy{}
	for rows.Next() {
		var p models.Policy
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Target, &p.Region); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPolicies: %w", err)
	}
	return policies, nil
}

// GetPolicy returns the full record with the given id, or models.ErrNotFound.
func (r *PostgresPolicyRepository) GetPolicy(ctx context.Context, id int64) (*models.Policy, error) {
	var (
		p                                  models.Policy
		period, method, documents, contact sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, title, description, target, region,
		       application_period, application_method, required_documents, contact
		FROM policies WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.Target, &p.Region,
		&period, &method, &documents, &contact)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetPolicy: %w", err)
	}
	p.ApplicationPeriod = nullable(period)
	p.ApplicationMethod = nullable(method)
	p.RequiredDocuments = nullable(documents)
	p.Contact = nullable(contact)
	return &p, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
