package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/atinyakov/PolicyFinder/internal/models"
	"github.com/atinyakov/PolicyFinder/internal/service"
)

type mockPolicyRepo struct {
	ListPoliciesFunc func(ctx context.Context) ([]models.Policy, error)
	GetPolicyFunc    func(ctx context.Context, id int64) (*models.Policy, error)
}

func (m *mockPolicyRepo) ListPolicies(ctx context.Context) ([]models.Policy, error) {
	return m.ListPoliciesFunc(ctx)
}
func (m *mockPolicyRepo) GetPolicy(ctx context.Context, id int64) (*models.Policy, error) {
	return m.GetPolicyFunc(ctx, id)
}

func TestListPolicies_Success(t *testing.T) {
	want := []models.Policy{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}
	repo := &mockPolicyRepo{
		ListPoliciesFunc: func(context.Context) ([]models.Policy, error) {
			return want, nil
		},
	}
	got, err := service.NewPolicyService(repo).ListPolicies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("policies = %+v; want %+v", got, want)
	}
}

func TestListPolicies_FetchError(t *testing.T) {
	cause := errors.New("db down")
	repo := &mockPolicyRepo{
		ListPoliciesFunc: func(context.Context) ([]models.Policy, error) {
			return nil, cause
		},
	}
	_, err := service.NewPolicyService(repo).ListPolicies(context.Background())
	var fetchErr *models.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v; want *models.FetchError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap cause", err)
	}
	if fetchErr.Op != "list policies" {
		t.Errorf("Op = %q; want %q", fetchErr.Op, "list policies")
	}
}

func TestGetPolicy(t *testing.T) {
	found := &models.Policy{ID: 9, Title: "nine"}
	tests := []struct {
		name      string
		repoRet   *models.Policy
		repoErr   error
		want      *models.Policy
		wantErr   error
		wantFetch bool
	}{
		{name: "found", repoRet: found, want: found},
		{name: "not found", repoErr: models.ErrNotFound, wantErr: models.ErrNotFound},
		{name: "nil row", wantErr: models.ErrNotFound},
		{name: "service failure", repoErr: errors.New("timeout"), wantFetch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockPolicyRepo{
				GetPolicyFunc: func(ctx context.Context, id int64) (*models.Policy, error) {
					if id != 9 {
						t.Errorf("GetPolicy id = %d; want 9", id)
					}
					return tt.repoRet, tt.repoErr
				},
			}
			got, err := service.NewPolicyService(repo).GetPolicy(context.Background(), 9)
			if got != tt.want {
				t.Errorf("policy = %p; want %p", got, tt.want)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v; want %v", err, tt.wantErr)
			}
			var fetchErr *models.FetchError
			if errors.As(err, &fetchErr) != tt.wantFetch {
				t.Errorf("FetchError = %v; want %v", errors.As(err, &fetchErr), tt.wantFetch)
			}
		})
	}
}
