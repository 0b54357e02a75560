package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestQuery_ExecuteList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/policies", r.URL.Path)
		assert.Equal(t, "id,title", r.URL.Query().Get("select"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, `[{"id":1,"title":"a"},{"id":2,"title":"b"}]`)
	}))
	defer srv.Close()

	var rows []row
	err := New(srv.URL, "anon").From("policies").Select("id, title").Execute(context.Background(), &rows)
	require.NoError(t, err)
	assert.Equal(t, []row{{1, "a"}, {2, "b"}}, rows)
}

func TestQuery_ExecuteSingle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.7", r.URL.Query().Get("id"))
		assert.Equal(t, objectMediaType, r.Header.Get("Accept"))
		_, _ = io.WriteString(w, `{"id":7,"title":"seven"}`)
	}))
	defer srv.Close()

	var out row
	err := New(srv.URL, "anon").From("policies").Select("*").Eq("id", 7).Single().Execute(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, row{7, "seven"}, out)
}

func TestQuery_ExecuteSingleNoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = io.WriteString(w, `{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned","details":"The result contains 0 rows"}`)
	}))
	defer srv.Close()

	var out row
	err := New(srv.URL, "anon").From("policies").Select("*").Eq("id", 99).Single().Execute(context.Background(), &out)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestQuery_ExecuteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "upstream down")
	}))
	defer srv.Close()

	var rows []row
	err := New(srv.URL, "anon").From("policies").Select("*").Execute(context.Background(), &rows)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.NotErrorIs(t, err, ErrNoRows)
}

func TestQuery_ExecuteInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not-json")
	}))
	defer srv.Close()

	var rows []row
	err := New(srv.URL, "anon").From("policies").Execute(context.Background(), &rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response")
}

func TestQuery_ExecuteNetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1", "anon")
	var rows []row
	err := c.From("policies").Execute(context.Background(), &rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_Insert(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/feedback", r.URL.Path)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := New(srv.URL+"/", "anon").Insert(context.Background(), "feedback", map[string]any{"comment": "hi", "policy_id": nil})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"comment": "hi", "policy_id": nil}, got)
}

func TestClient_InsertRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"42501","message":"new row violates row-level security policy"}`)
	}))
	defer srv.Close()

	err := New(srv.URL, "anon").Insert(context.Background(), "feedback", map[string]any{"comment": "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "42501", apiErr.Code)
	assert.Contains(t, err.Error(), "row-level security")
}
