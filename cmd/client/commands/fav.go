package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/atinyakov/PolicyFinder/internal/client/shell"
	"github.com/atinyakov/PolicyFinder/internal/view"
)

// fav <id>: toggle a favorite.
func favCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "Add or remove a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid policy id %q", args[0])
			}
			added, err := appCtx.Favorites.Toggle(id)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(out(cmd), "즐겨찾기에 추가했습니다: %d\n", id)
			} else {
				fmt.Fprintf(out(cmd), "즐겨찾기에서 제거했습니다: %d\n", id)
			}
			return nil
		},
	}
}

// favs [--clear]: list favorites with their titles, or remove them all.
func favsCmd() *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "favs",
		Short: "List favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearAll {
				if err := appCtx.Favorites.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), "즐겨찾기를 모두 삭제했습니다.")
				return nil
			}

			ids := appCtx.Favorites.IDs()
			if len(ids) == 0 {
				fmt.Fprintln(out(cmd), "즐겨찾기한 정책이 없습니다.")
				return nil
			}

			l := view.NewListing(appCtx.Policies, appCtx.Log)
			l.Load(cmd.Context())
			if l.State() == view.StateError {
				shell.PrintListing(out(cmd), l, appCtx.Favorites)
				return fmt.Errorf("could not fetch policies")
			}
			shell.PrintFavorites(out(cmd), l.Policies(), ids)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every favorite")
	return cmd
}
