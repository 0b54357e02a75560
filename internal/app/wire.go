// Package app wires the policy store backend and the services on top of it
// for both front ends.
package app

import (
	"database/sql"
	"fmt"

	"github.com/atinyakov/PolicyFinder/internal/config"
	"github.com/atinyakov/PolicyFinder/internal/db"
	"github.com/atinyakov/PolicyFinder/internal/postgrest"
	"github.com/atinyakov/PolicyFinder/internal/repository"
	"github.com/atinyakov/PolicyFinder/internal/service"
)

// Wire bundles the services built from one configuration.
type Wire struct {
	Policies *service.PolicyService
	Feedback *service.FeedbackService

	db *sql.DB
}

// NewWire builds the repositories for opts.Backend and the services using
// them. The postgres backend opens and pings the database and, with
// opts.InitSchema, creates the tables.
func NewWire(opts *config.Options) (*Wire, error) {
	var (
		w            Wire
		policyRepo   service.PolicyRepository
		feedbackRepo service.FeedbackRepository
	)

	switch opts.Backend {
	case config.BackendREST:
		client := postgrest.New(opts.SupabaseURL, opts.SupabaseAnonKey)
		client.HTTP.Timeout = opts.RequestTimeout
		policyRepo = repository.NewRestPolicyRepository(client)
		feedbackRepo = repository.NewRestFeedbackRepository(client)
	case config.BackendPostgres:
		conn, err := db.InitPostgres(opts.DatabaseDSN, opts.InitSchema)
		if err != nil {
			return nil, err
		}
		w.db = conn
		policyRepo = repository.NewPostgresPolicyRepository(conn)
		feedbackRepo = repository.NewPostgresFeedbackRepository(conn)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}

	w.Policies = service.NewPolicyService(policyRepo)
	w.Feedback = service.NewFeedbackService(feedbackRepo)
	return &w, nil
}

// Close releases the database connection of the postgres backend.
func (w *Wire) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}
