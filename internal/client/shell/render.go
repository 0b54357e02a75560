package shell

import (
	"fmt"
	"io"

	"github.com/atinyakov/PolicyFinder/internal/favorites"
	"github.com/atinyakov/PolicyFinder/internal/view"
)

// PrintListing writes the listing in its current state. Favorites are
// starred when favs is not nil.
func PrintListing(w io.Writer, l *view.Listing, favs *favorites.Store) {
	switch l.State() {
	case view.StateLoading:
		fmt.Fprintln(w, "불러오는 중...")
	case view.StateError:
		fmt.Fprintf(w, "오류 발생! %s\n", l.Error())
	case view.StateEmpty:
		fmt.Fprintln(w, view.MsgNoResults)
	default:
		for _, p := range l.Displayed() {
			star := " "
			if favs != nil && favs.Contains(p.ID) {
				star = "★"
			}
			fmt.Fprintf(w, "%s %d. %s [%s · %s]\n    %s\n", star, p.ID, p.Title, p.Target, p.Region, p.Description)
		}
	}
}

// PrintDetail writes the detail view in its current state.
func PrintDetail(w io.Writer, d *view.Detail, favs *favorites.Store) {
	switch d.State() {
	case view.StateLoading:
		fmt.Fprintln(w, "불러오는 중...")
		return
	case view.StateError:
		fmt.Fprintf(w, "오류 발생! %s\n", d.Error())
		return
	case view.StateNotFound:
		fmt.Fprintln(w, view.MsgNotFound)
		return
	}

	p := d.Policy()
	star := ""
	if favs != nil && favs.Contains(p.ID) {
		star = " ★"
	}
	fmt.Fprintf(w, "%s%s\n", p.Title, star)
	fmt.Fprintf(w, "대상: %s\n지역: %s\n\n", p.Target, p.Region)
	fmt.Fprintf(w, "정책 설명\n  %s\n", p.Description)
	for _, s := range []struct {
		heading string
		value   *string
	}{
		{"신청 기간", p.ApplicationPeriod},
		{"신청 방법", p.ApplicationMethod},
		{"제출 서류", p.RequiredDocuments},
		{"문의처", p.Contact},
	} {
		if s.value != nil && *s.value != "" {
			fmt.Fprintf(w, "%s\n  %s\n", s.heading, *s.value)
		}
	}
	fmt.Fprintf(w, "\n링크: %s\n", d.Location)
	if msg := d.CopyMessage(); msg != "" {
		fmt.Fprintln(w, msg)
	}
}

// PrintMessage writes a feedback status line, if any.
func PrintMessage(w io.Writer, m *view.Message) {
	if m == nil {
		return
	}
	fmt.Fprintln(w, m.Text)
}
