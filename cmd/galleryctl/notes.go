package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/views"
)

const timeLayout = "2006-01-02 15:04"

// notesCmd, bir post'un yorumlarını ve admire'larını tek listede gösterir.
// Üstte feed ve yorum önizlemeleri yazılır.
func notesCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "comments POST_ID",
		Short: "List comments and admires on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			postID := args[0]

			s, err := opts.open(ctx, out, false)
			if err != nil {
				return err
			}
			defer s.finish()

			notes, err := opts.surface("notes")
			if err != nil {
				return err
			}
			feedPreview, err := opts.surface("feed_admire_preview")
			if err != nil {
				return err
			}
			commentPreview, err := opts.surface("comment_preview")
			if err != nil {
				return err
			}
			admireSide := notesSide(notes, views.CollectionAdmires)

			var pages []*views.Paginator
			for _, surface := range []views.Surface{feedPreview, commentPreview, notes, admireSide} {
				p, unmount, err := s.mount(ctx, surface, postID)
				if err != nil {
					return err
				}
				defer unmount()
				pages = append(pages, p)
			}
			lists := pages[2:]

			for _, p := range lists {
				for all && p.HasMore() {
					if _, err := p.LoadMore(ctx); err != nil {
						return err
					}
				}
			}

			printProjection(out, s, feedPreview.Name, s.project(feedPreview, postID))
			printLastComment(out, s, commentPreview.Name, s.project(commentPreview, postID))

			var proj views.Projection
			s.exec.Serialize(func() {
				comments, _ := s.views.View(notes.ViewName(postID))
				admires, _ := s.views.View(admireSide.ViewName(postID))
				proj = views.ProjectNotes(comments, admires, views.StoreLookup(s.store), notes)
			})
			for _, e := range proj.Items {
				printEntry(out, s, e)
			}
			fmt.Fprintf(out, "showing %d of %d\n", len(proj.Items), proj.Total)
			for _, p := range lists {
				if p.HasMore() {
					fmt.Fprintln(out, "(more available, use --all)")
					break
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "load every page")
	return cmd
}

// notesSide, notes yüzeyinin verilen koleksiyonu gözlemleyen eşi.
// İki taraf aynı pencere ayarlarını paylaşır, View adları ayrışır.
func notesSide(notes views.Surface, kind views.CollectionKind) views.Surface {
	side := notes
	side.Name = notes.Name + "_" + string(kind)
	side.Collection = kind
	return side
}

// printLastComment, comment_preview satırını yazar: son yorum, silinmişse "empty".
func printLastComment(out io.Writer, s *session, name string, p views.Projection) {
	switch {
	case p.CreateFirst:
		fmt.Fprintf(out, "%s: be the first\n", name)
	case p.Empty || len(p.Items) == 0:
		fmt.Fprintf(out, "%s: empty\n", name)
	default:
		e := p.Items[0]
		fmt.Fprintf(out, "%s: %s: %s\n", name, s.label(e), e.Body)
	}
}

func printEntry(out io.Writer, s *session, e store.Entity) {
	when := e.CreatedAt.Format(timeLayout)
	switch {
	case e.Kind == store.KindAdmire:
		fmt.Fprintf(out, "%s  %s admired\n", when, s.label(e))
	case e.Body != "":
		fmt.Fprintf(out, "%s  %s: %s\n", when, s.label(e), e.Body)
	default:
		fmt.Fprintf(out, "%s  %s\n", when, s.label(e))
	}
}
