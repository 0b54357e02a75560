package repository

import (
	"context"
	"database/sql"
	"errors"
	"io"
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

func setupMock(t *testing.T) (*PostgresPolicyRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresPolicyRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestPostgresListPolicies_Success(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "title", "description", "target", "region"}).
		AddRow(int64(1), "청년 월세 지원", "월세 20만원", "청년", "서울").
		AddRow(int64(2), "소상공인 대출", "저금리 대출", "소상공인", "전국")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, description, target, region FROM policies`)).
		WillReturnRows(rows)

	policies, err := repo.ListPolicies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(policies))
	}
	if policies[0].ID != 1 || policies[1].Region != "전국" {
		t.Errorf("unexpected policies returned: %+v", policies)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresListPolicies_Empty(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM policies`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "target", "region"}))

	policies, err := repo.ListPolicies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if policies == nil || len(policies) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", policies)
	}
}

func TestPostgresListPolicies_Error(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM policies`)).
		WillReturnError(errors.New("query fail"))

	_, err := repo.ListPolicies(context.Background())
	if err == nil || !regexp.MustCompile(`ListPolicies`).MatchString(err.Error()) {
		t.Errorf("expected ListPolicies error, got %v", err)
	}
}

func TestPostgresGetPolicy_Success(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "target", "region",
		"application_period", "application_method", "required_documents", "contact",
	}).AddRow(int64(3), "t", "d", "여성", "부산", "2025.01~2025.12", nil, "신분증", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM policies WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	p, err := repo.GetPolicy(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	require.NotNil(t, p.ApplicationPeriod)
	assert.Equal(t, "2025.01~2025.12", *p.ApplicationPeriod)
	assert.Nil(t, p.ApplicationMethod)
	require.NotNil(t, p.RequiredDocuments)
	assert.Equal(t, "신분증", *p.RequiredDocuments)
	assert.Nil(t, p.Contact)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetPolicy_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM policies WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPolicy(context.Background(), 404)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostgresGetPolicy_Error(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM policies WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnError(errors.New("conn reset"))

	_, err := repo.GetPolicy(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "GetPolicy")
}

func newRestRepo(t *testing.T, h http.HandlerFunc) *RestPolicyRepository {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRestPolicyRepository(postgrest.New(srv.URL, "anon"))
}

func TestRestListPolicies(t *testing.T) {
	repo := newRestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/policies", r.URL.Path)
		assert.Equal(t, "id,title,description,target,region", r.URL.Query().Get("select"))
		_, _ = io.WriteString(w, `[{"id":1,"title":"a","description":"b","target":"청년","region":"서울"}]`)
	})

	policies, err := repo.ListPolicies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Policy{{ID: 1, Title: "a", Description: "b", Target: "청년", Region: "서울"}}, policies)
}

func TestRestListPolicies_NullBody(t *testing.T) {
	repo := newRestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	policies, err := repo.ListPolicies(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, policies)
	assert.Empty(t, policies)
}

func TestRestGetPolicy(t *testing.T) {
	repo := newRestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "eq.5", r.URL.Query().Get("id"))
		_, _ = io.WriteString(w, `{"id":5,"title":"t","description":"d","target":"부모","region":"대구","contact":"120"}`)
	})

	p, err := repo.GetPolicy(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	require.NotNil(t, p.Contact)
	assert.Equal(t, "120", *p.Contact)
	assert.Nil(t, p.ApplicationPeriod)
}

func TestRestGetPolicy_NotFound(t *testing.T) {
	repo := newRestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = io.WriteString(w, `{"code":"PGRST116","message":"no rows"}`)
	})

	_, err := repo.GetPolicy(context.Background(), 5)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRestGetPolicy_ServiceError(t *testing.T) {
	repo := newRestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := repo.GetPolicy(context.Background(), 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}
