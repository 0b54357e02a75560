package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/PolicyFinder/internal/models"
	"github.com/atinyakov/PolicyFinder/internal/postgrest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresInsertFeedback(t *testing.T) {
	id := int64(12)
	cases := []struct {
		name     string
		fb       models.Feedback
		wantArgs []driver.Value
	}{
		{"with policy", models.Feedback{Comment: "좋아요", PolicyID: &id}, []driver.Value{"좋아요", int64(12)}},
		{"without policy", models.Feedback{Comment: "site"}, []driver.Value{"site", nil}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO feedback (comment, policy_id) VALUES ($1, $2)`)).
				WithArgs(tc.wantArgs...).
				WillReturnResult(sqlmock.NewResult(1, 1))

			repo := NewPostgresFeedbackRepository(db)
			require.NoError(t, repo.InsertFeedback(context.Background(), tc.fb))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresInsertFeedback_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO feedback`)).
		WillReturnError(errors.New("permission denied"))

	err = NewPostgresFeedbackRepository(db).InsertFeedback(context.Background(), models.Feedback{Comment: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InsertFeedback")
}

func TestRestInsertFeedback(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/feedback", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	id := int64(4)
	repo := NewRestFeedbackRepository(postgrest.New(srv.URL, "anon"))
	require.NoError(t, repo.InsertFeedback(context.Background(), models.Feedback{Comment: " hi ", PolicyID: &id}))
	assert.Equal(t, map[string]any{"comment": " hi ", "policy_id": float64(4)}, body)
}

func TestRestInsertFeedback_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	repo := NewRestFeedbackRepository(postgrest.New(srv.URL, "anon"))
	err := repo.InsertFeedback(context.Background(), models.Feedback{Comment: "x"})
	var apiErr *postgrest.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}
