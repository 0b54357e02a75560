// Package service provides the policy and feedback operations used by the
// views, delegating persistence to repository interfaces and translating
// storage failures into models.FetchError.
package service

import (
	"context"
	"errors"

	"github.com/atinyakov/PolicyFinder/internal/models"
)

// PolicyRepository defines the read operations needed by PolicyService.
type PolicyRepository interface {
	// ListPolicies returns the whole policy collection.
	ListPolicies(ctx context.Context) ([]models.Policy, error)
	// GetPolicy returns one policy or models.ErrNotFound.
	GetPolicy(ctx context.Context, id int64) (*models.Policy, error)
}

// PolicyService implements the policy store client contract.
type PolicyService struct {
	repo PolicyRepository
}

// NewPolicyService constructs a PolicyService with the provided repository.
func NewPolicyService(repo PolicyRepository) *PolicyService {
	return &PolicyService{repo: repo}
}

// ListPolicies fetches all policies in one attempt. Any failure is
// returned as *models.FetchError.
func (s *PolicyService) ListPolicies(ctx context.Context) ([]models.Policy, error) {
	policies, err := s.repo.ListPolicies(ctx)
	if err != nil {
		return nil, &models.FetchError{Op: "list policies", Err: err}
	}
	return policies, nil
}

// GetPolicy fetches one policy by id. A missing row is reported as
// models.ErrNotFound, anything else as *models.FetchError.
func (s *PolicyService) GetPolicy(ctx context.Context, id int64) (*models.Policy, error) {
	policy, err := s.repo.GetPolicy(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, &models.FetchError{Op: "get policy", Err: err}
	}
	if policy == nil {
		return nil, models.ErrNotFound
	}
	return policy, nil
}
