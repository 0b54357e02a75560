package view

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/PolicyFinder/internal/models"
	"go.uber.org/zap"
)

// DefaultCopyMessageTTL is how long the copy confirmation stays visible.
const DefaultCopyMessageTTL = 2 * time.Second

// PolicyGetter fetches one policy by id.
type PolicyGetter interface {
	GetPolicy(ctx context.Context, id int64) (*models.Policy, error)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// Detail is the state of the policy detail screen.
type Detail struct {
	// Location is the shareable address of the current page.
	Location string
	// CopyMessageTTL overrides DefaultCopyMessageTTL when positive.
	CopyMessageTTL time.Duration

	policy  *models.Policy
	loading bool
	err     string

	mu        sync.Mutex
	copyMsg   string
	copyTimer *time.Timer

	store PolicyGetter
	log   *zap.Logger
}

// NewDetail returns a detail view in the loading state.
func NewDetail(store PolicyGetter, log *zap.Logger) *Detail {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detail{loading: true, store: store, log: log}
}

// Load fetches the policy identified by the route parameter id. An empty id
// only clears the loading flag. An id that is not an integer cannot match
// any row and is reported as not found without a fetch.
func (d *Detail) Load(ctx context.Context, id string) {
	d.loading = true
	d.err = ""
	d.policy = nil

	if id == "" {
		d.loading = false
		return
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		d.loading = false
		return
	}

	policy, err := d.store.GetPolicy(ctx, n)
	switch {
	case errors.Is(err, models.ErrNotFound):
	case err != nil:
		d.log.Error("Error fetching policy", zap.String("id", id), zap.Error(err))
		d.err = MsgFetchFailed
	default:
		d.policy = policy
	}
	d.loading = false
}

// Policy returns the loaded policy, or nil.
func (d *Detail) Policy() *models.Policy {
	return d.policy
}

// Error returns the user-facing error message, or "".
func (d *Detail) Error() string {
	return d.err
}

// State returns the render state. A finished load without a policy is
// not found, distinct from a failed fetch.
func (d *Detail) State() State {
	switch {
	case d.loading:
		return StateLoading
	case d.err != "":
		return StateError
	case d.policy == nil:
		return StateNotFound
	default:
		return StateReady
	}
}

// CopyLink writes Location to cb. On success a confirmation message is
// shown and cleared after the TTL; on failure a failure message is shown
// until the next copy attempt.
func (d *Detail) CopyLink(cb Clipboard) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.copyTimer != nil {
		d.copyTimer.Stop()
		d.copyTimer = nil
	}
	if err := cb.WriteAll(d.Location); err != nil {
		d.log.Warn("link copy failed", zap.Error(err))
		d.copyMsg = MsgLinkCopyFailed
		return
	}
	d.copyMsg = MsgLinkCopied

	ttl := d.CopyMessageTTL
	if ttl <= 0 {
		ttl = DefaultCopyMessageTTL
	}
	var timer *time.Timer
	timer = time.AfterFunc(ttl, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.copyTimer == timer {
			d.copyMsg = ""
			d.copyTimer = nil
		}
	})
	d.copyTimer = timer
}

// CopyMessage returns the current copy status message, or "".
func (d *Detail) CopyMessage() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.copyMsg
}

// Close stops a pending message-clear timer.
func (d *Detail) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.copyTimer != nil {
		d.copyTimer.Stop()
		d.copyTimer = nil
	}
}

// FacebookShareURL returns the share address for the current page.
func (d *Detail) FacebookShareURL() string {
	return FacebookShareURL(d.Location)
}

// TwitterShareURL returns the tweet-intent address for the current page.
func (d *Detail) TwitterShareURL() string {
	title := ""
	if d.policy != nil {
		title = d.policy.Title
	}
	return TwitterShareURL(title, d.Location)
}

// FacebookShareURL builds the Facebook sharer address for location.
func FacebookShareURL(location string) string {
	return "https://www.facebook.com/sharer/sharer.php?u=" + encodeURIComponent(location)
}

// TwitterShareURL builds the tweet-intent address announcing title at location.
func TwitterShareURL(title, location string) string {
	text := "[" + title + "] 정부 정책 및 지원금 정보 확인하기: " + location
	return "https://twitter.com/intent/tweet?text=" + encodeURIComponent(text)
}

// encodeURIComponent escapes s for use inside a query value, with spaces
// as %20 rather than +.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
