// Package shell implements the interactive PolicyFinder terminal session:
// a line-oriented loop over the listing, detail and feedback views.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/PolicyFinder/internal/favorites"
	"github.com/atinyakov/PolicyFinder/internal/models"
	"github.com/atinyakov/PolicyFinder/internal/view"
	"go.uber.org/zap"
)

const prompt = "policyfinder> "

const helpText = `Available commands:
  list                     show the policies passing the current filters
  search [term]            filter by keyword (no term clears it)
  region <name|all>        filter by region
  target <name|all>        filter by target
  retry                    fetch the policies again
  show <id>                open a policy
  fav [id]                 toggle a favorite (default: the open policy)
  favs [clear]             list favorites, or remove them all
  copy                     copy the link of the open policy
  share <facebook|twitter> print a share link for the open policy
  feedback <text>          send feedback, tied to the open policy if any
  help, exit`

// PolicyService reads policies.
type PolicyService interface {
	view.PolicyLister
	view.PolicyGetter
}

// Shell is one interactive session.
type Shell struct {
	Policies  PolicyService
	Feedback  view.FeedbackSender
	Favorites *favorites.Store
	Clipboard view.Clipboard
	// SiteURL is the web root that detail links are built from.
	SiteURL string
	In      io.Reader
	Out     io.Writer
	Log     *zap.Logger

	listing *view.Listing
	detail  *view.Detail
}

// Run reads commands until exit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.Clipboard == nil {
		s.Clipboard = SystemClipboard{}
	}
	defer s.closeDetail()

	scanner := bufio.NewScanner(s.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.Out, prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			fmt.Fprintln(s.Out, helpText)
		case "list":
			s.ensureListing(ctx)
			PrintListing(s.Out, s.listing, s.Favorites)
		case "search":
			s.ensureListing(ctx)
			s.listing.SearchTerm = rest
			PrintListing(s.Out, s.listing, s.Favorites)
		case "region":
			if !s.setFilter(ctx, rest, models.IsRegion, func(v string) { s.listing.SelectedRegion = v }) {
				fmt.Fprintf(s.Out, "Unknown region. Choose one of: all, %s\n", strings.Join(models.Regions, ", "))
			}
		case "target":
			if !s.setFilter(ctx, rest, models.IsTarget, func(v string) { s.listing.SelectedTarget = v }) {
				fmt.Fprintf(s.Out, "Unknown target. Choose one of: all, %s\n", strings.Join(models.Targets, ", "))
			}
		case "retry":
			if s.listing == nil {
				s.ensureListing(ctx)
			} else {
				s.listing.Retry(ctx)
			}
			PrintListing(s.Out, s.listing, s.Favorites)
		case "show":
			if rest == "" {
				fmt.Fprintln(s.Out, "Usage: show <id>")
				continue
			}
			s.show(ctx, rest)
		case "fav":
			s.toggleFavorite(rest)
		case "favs":
			if rest == "clear" {
				s.clearFavorites()
				continue
			}
			s.printFavorites(ctx)
		case "copy":
			if d := s.openPolicy(); d != nil {
				d.CopyLink(s.Clipboard)
				fmt.Fprintln(s.Out, d.CopyMessage())
			}
		case "share":
			s.share(rest)
		case "feedback":
			s.feedback(ctx, rest)
		case "exit", "quit":
			fmt.Fprintln(s.Out, "Bye")
			return nil
		default:
			fmt.Fprintln(s.Out, "Unknown command. Type 'help' for a list of commands.")
		}
	}
	return scanner.Err()
}

// ensureListing fetches the collection on first use.
func (s *Shell) ensureListing(ctx context.Context) {
	if s.listing == nil {
		s.listing = view.NewListing(s.Policies, s.Log)
		s.listing.Load(ctx)
	}
}

func (s *Shell) setFilter(ctx context.Context, v string, valid func(string) bool, set func(string)) bool {
	if v == "" {
		v = models.All
	}
	if v != models.All && !valid(v) {
		return false
	}
	s.ensureListing(ctx)
	set(v)
	PrintListing(s.Out, s.listing, s.Favorites)
	return true
}

func (s *Shell) show(ctx context.Context, id string) {
	s.closeDetail()
	d := view.NewDetail(s.Policies, s.Log)
	d.Location = PolicyURL(s.SiteURL, id)
	d.Load(ctx, id)
	s.detail = d
	PrintDetail(s.Out, d, s.Favorites)
}

func (s *Shell) toggleFavorite(arg string) {
	var id int64
	switch {
	case arg != "":
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintln(s.Out, "Usage: fav [id]")
			return
		}
		id = n
	case s.openPolicy() != nil:
		id = s.detail.Policy().ID
	default:
		return
	}

	added, err := s.Favorites.Toggle(id)
	if err != nil {
		s.Log.Error("Error saving favorites", zap.Error(err))
		fmt.Fprintf(s.Out, "Failed to save favorites: %v\n", err)
		return
	}
	if added {
		fmt.Fprintf(s.Out, "즐겨찾기에 추가했습니다: %d\n", id)
	} else {
		fmt.Fprintf(s.Out, "즐겨찾기에서 제거했습니다: %d\n", id)
	}
}

func (s *Shell) clearFavorites() {
	if err := s.Favorites.Clear(); err != nil {
		s.Log.Error("Error clearing favorites", zap.Error(err))
		fmt.Fprintf(s.Out, "Failed to clear favorites: %v\n", err)
		return
	}
	fmt.Fprintln(s.Out, "즐겨찾기를 모두 삭제했습니다.")
}

func (s *Shell) printFavorites(ctx context.Context) {
	ids := s.Favorites.IDs()
	if len(ids) == 0 {
		fmt.Fprintln(s.Out, "즐겨찾기한 정책이 없습니다.")
		return
	}
	s.ensureListing(ctx)
	if s.listing.State() == view.StateError {
		PrintListing(s.Out, s.listing, s.Favorites)
		return
	}
	PrintFavorites(s.Out, s.listing.Policies(), ids)
}

func (s *Shell) share(network string) {
	d := s.openPolicy()
	if d == nil {
		return
	}
	switch network {
	case "facebook":
		fmt.Fprintln(s.Out, d.FacebookShareURL())
	case "twitter":
		fmt.Fprintln(s.Out, d.TwitterShareURL())
	default:
		fmt.Fprintln(s.Out, "Usage: share <facebook|twitter>")
	}
}

func (s *Shell) feedback(ctx context.Context, text string) {
	var policyID *int64
	if d := s.detail; d != nil && d.Policy() != nil {
		id := d.Policy().ID
		policyID = &id
	}
	form := view.NewFeedbackForm(s.Feedback, policyID, s.Log)
	form.Comment = text
	form.Submit(ctx)
	PrintMessage(s.Out, form.Message())
}

// openPolicy returns the detail view when a policy is open, and tells the
// user to open one otherwise.
func (s *Shell) openPolicy() *view.Detail {
	if s.detail == nil || s.detail.Policy() == nil {
		fmt.Fprintln(s.Out, "No policy open. Use 'show <id>' first.")
		return nil
	}
	return s.detail
}

func (s *Shell) closeDetail() {
	if s.detail != nil {
		s.detail.Close()
	}
}

// PrintFavorites writes the favorited policies in favorite order. Ids with
// no matching policy are reported as not found.
func PrintFavorites(w io.Writer, policies []models.Policy, ids []int64) {
	byID := make(map[int64]models.Policy, len(policies))
	for _, p := range policies {
		byID[p.ID] = p
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			fmt.Fprintf(w, "★ %d. %s\n", id, view.MsgNotFound)
			continue
		}
		fmt.Fprintf(w, "★ %d. %s [%s · %s]\n", p.ID, p.Title, p.Target, p.Region)
	}
}

// PolicyURL returns the web address of the policy detail page.
func PolicyURL(siteURL, id string) string {
	return strings.TrimRight(siteURL, "/") + "/policy/" + id
}
