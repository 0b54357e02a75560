package view

import (
	"context"
	"strings"

	"github.com/atinyakov/PolicyFinder/internal/models"
	"go.uber.org/zap"
)

// PolicyLister fetches the whole policy collection.
type PolicyLister interface {
	ListPolicies(ctx context.Context) ([]models.Policy, error)
}

// Filter is the conjunction of the three listing predicates.
type Filter struct {
	// Term must occur in the title or the description. Empty matches all.
	Term string
	// Region must equal the policy region unless it is models.All.
	Region string
	// Target must equal the policy target unless it is models.All.
	Target string
}

// Match reports whether p passes every predicate. Term matching is a
// case-sensitive substring test.
func (f Filter) Match(p models.Policy) bool {
	return (strings.Contains(p.Title, f.Term) || strings.Contains(p.Description, f.Term)) &&
		(f.Region == models.All || f.Region == "" || f.Region == p.Region) &&
		(f.Target == models.All || f.Target == "" || f.Target == p.Target)
}

// Apply returns the policies matching f, preserving order.
func (f Filter) Apply(policies []models.Policy) []models.Policy {
	out := make([]models.Policy, 0, len(policies))
	for _, p := range policies {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Listing is the state of the policy list screen.
type Listing struct {
	// SearchTerm is the keyword typed by the visitor.
	SearchTerm string
	// SelectedRegion is a region or models.All.
	SelectedRegion string
	// SelectedTarget is a target or models.All.
	SelectedTarget string

	policies []models.Policy
	loading  bool
	err      string

	store PolicyLister
	log   *zap.Logger
}

// NewListing returns a listing in the loading state with no filters.
func NewListing(store PolicyLister, log *zap.Logger) *Listing {
	if log == nil {
		log = zap.NewNop()
	}
	return &Listing{
		SelectedRegion: models.All,
		SelectedTarget: models.All,
		policies:       []models.Policy{},
		loading:        true,
		store:          store,
		log:            log,
	}
}

// Load fetches the collection and replaces the held policies. On failure
// the policies are cleared and the error message is set.
func (l *Listing) Load(ctx context.Context) {
	l.loading = true
	l.err = ""

	policies, err := l.store.ListPolicies(ctx)
	if err != nil {
		l.log.Error("Error fetching policies", zap.Error(err))
		l.policies = []models.Policy{}
		l.err = MsgFetchFailed
	} else {
		if policies == nil {
			policies = []models.Policy{}
		}
		l.policies = policies
	}
	l.loading = false
}

// Retry re-runs Load.
func (l *Listing) Retry(ctx context.Context) {
	l.Load(ctx)
}

// Filter returns the current filter selection.
func (l *Listing) Filter() Filter {
	return Filter{Term: l.SearchTerm, Region: l.SelectedRegion, Target: l.SelectedTarget}
}

// Displayed returns the policies passing the current filter.
func (l *Listing) Displayed() []models.Policy {
	return l.Filter().Apply(l.policies)
}

// Policies returns every fetched policy, unfiltered.
func (l *Listing) Policies() []models.Policy {
	return l.policies
}

// Error returns the user-facing error message, or "".
func (l *Listing) Error() string {
	return l.err
}

// State returns the render state.
func (l *Listing) State() State {
	switch {
	case l.err != "":
		return StateError
	case l.loading:
		return StateLoading
	case len(l.Displayed()) == 0:
		return StateEmpty
	default:
		return StateReady
	}
}
