package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akinalp/gallery/executor"
	"github.com/akinalp/gallery/remote"
	"github.com/akinalp/gallery/updaters"
)

func loginCmd(opts *options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := remote.NewHTTPClient(opts.server)
			resp, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", resp.User.Username, resp.User.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "export GALLERY_TOKEN=%s\n", resp.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func meCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context(), cmd.OutOrStdout(), true)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", s.me.Username, s.me.ID)
			fmt.Fprintf(out, "followers: %d  following: %d\n", s.me.FollowerCount, s.me.FollowingCount)
			return nil
		},
	}
}

func admireCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "admire POST_ID",
		Short: "Admire a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmire(cmd, opts, args[0], false)
		},
	}
}

func unadmireCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unadmire POST_ID",
		Short: "Take back an admire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmire(cmd, opts, args[0], true)
		},
	}
}

// runAdmire, post'un önizleme yüzeyini bağlar, aksiyonu çalıştırır ve
// yüzeyin son halini yazdırır.
func runAdmire(cmd *cobra.Command, opts *options, postID string, undo bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := opts.open(ctx, out, true)
	if err != nil {
		return err
	}
	defer s.finish()

	preview, err := opts.surface("inline_admirers")
	if err != nil {
		return err
	}
	_, unmount, err := s.mount(ctx, preview, postID)
	if err != nil {
		return err
	}
	defer unmount()

	// Kendi admire'ımız önizleme penceresinin dışında kalmış olabilir.
	post, err := s.client.Post(ctx, postID)
	if err != nil {
		return fmt.Errorf("load post: %w", err)
	}
	if post.ViewerAdmire != nil {
		s.exec.ApplyCanonical(updaters.Canonical{Entity: remote.AdmireEntity(*post.ViewerAdmire)})
	}

	var o executor.Outcome
	if undo {
		o = s.exec.Unadmire(ctx, s.me.ID, postID)
	} else {
		o = s.exec.Admire(ctx, s.me.ID, postID)
	}
	if err := s.report(o); err != nil {
		return err
	}
	printProjection(out, s, preview.Name, s.project(preview, postID))
	return nil
}

func followCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "follow USER_ID",
		Short: "Follow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollow(cmd, opts, func(s *session) executor.Outcome {
				return s.exec.Follow(cmd.Context(), s.me.ID, args[0])
			})
		},
	}
}

func unfollowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unfollow USER_ID",
		Short: "Stop following a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollow(cmd, opts, func(s *session) executor.Outcome {
				return s.exec.Unfollow(cmd.Context(), s.me.ID, args[0])
			})
		},
	}
}

func bulkFollowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-follow USER_ID...",
		Short: "Follow several users in one all-or-nothing request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollow(cmd, opts, func(s *session) executor.Outcome {
				return s.exec.BulkFollow(cmd.Context(), s.me.ID, args)
			})
		},
	}
}

func runFollow(cmd *cobra.Command, opts *options, do func(s *session) executor.Outcome) error {
	s, err := opts.open(cmd.Context(), cmd.OutOrStdout(), true)
	if err != nil {
		return err
	}
	defer s.finish()
	return s.report(do(s))
}

// listCmd, tam liste yüzeyini sayfa sayfa yükleyen bir komut üretir.
func listCmd(opts *options, use, surfaceName, short string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   use + " TARGET_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := opts.open(ctx, out, false)
			if err != nil {
				return err
			}
			defer s.finish()

			surface, err := opts.surface(surfaceName)
			if err != nil {
				return err
			}
			p, unmount, err := s.mount(ctx, surface, args[0])
			if err != nil {
				return err
			}
			defer unmount()

			for all && p.HasMore() {
				if _, err := p.LoadMore(ctx); err != nil {
					return err
				}
			}

			proj := s.project(surface, args[0])
			for _, e := range proj.Items {
				printEntry(out, s, e)
			}
			fmt.Fprintf(out, "showing %d of %d\n", len(proj.Items), proj.Total)
			if p.HasMore() {
				fmt.Fprintln(out, "(more available, use --all)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "load every page")
	return cmd
}
