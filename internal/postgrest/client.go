// Package postgrest is a minimal query-builder client for the hosted data
// service. It speaks the PostgREST dialect exposed under /rest/v1: column
// projection via select, equality filters via eq., single-object reads and
// row inserts.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	restPath = "/rest/v1/"

	// noRowsCode is returned by PostgREST when a single-object read matches nothing.
	noRowsCode = "PGRST116"

	objectMediaType = "application/vnd.pgrst.object+json"
)

// ErrNoRows is returned by Single queries that match no row.
var ErrNoRows = errors.New("postgrest: no rows in result")

// APIError is the error body PostgREST returns on non-2xx responses.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("postgrest: status %d", e.Status)
	}
	return fmt.Sprintf("postgrest: status %d: %s", e.Status, e.Message)
}

// Client issues requests against one project of the data service.
type Client struct {
	// BaseURL is the project URL, e.g. https://xyz.supabase.co.
	BaseURL string
	// APIKey is the public anonymous key sent with every request.
	APIKey string
	// HTTP performs the requests.
	HTTP *http.Client
}

// New returns a Client with a 10 second request timeout.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// From starts a query on table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{}}
}

// Query accumulates projection and filters for a read.
type Query struct {
	client *Client
	table  string
	params url.Values
	single bool
}

// Select sets the projected columns, e.g. "id, title" or "*".
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", strings.ReplaceAll(columns, " ", ""))
	return q
}

// Eq adds an equality filter on column.
func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, "eq."+fmt.Sprint(value))
	return q
}

// Single asks for exactly one row; zero rows yield ErrNoRows.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Execute runs the query and decodes the response into out, which must be
// a pointer to a slice, or to a struct when Single was requested.
func (q *Query) Execute(ctx context.Context, out any) error {
	u := q.client.BaseURL + restPath + q.table
	if len(q.params) > 0 {
		u += "?" + q.params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if q.single {
		req.Header.Set("Accept", objectMediaType)
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := q.client.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		var apiErr *APIError
		if q.single && errors.As(err, &apiErr) && apiErr.Code == noRowsCode {
			return ErrNoRows
		}
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

// Insert writes one row into table without reading it back.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	b, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+restPath+table, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkResponse(resp)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(data) > 0 {
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(data))
		}
	}
	return apiErr
}
