// galleryctl, gallery server'ına karşı optimistic sync çekirdeğini çalıştıran
// komut satırı istemcisi. Her komut kendi store / view registry / executor
// üçlüsünü kurar, sonucu yazdırır ve çıkar; watch ise realtime event'leri dinler.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "galleryctl",
		Short: "Admire, follow and browse a gallery server from the terminal",
		Long: `galleryctl drives the optimistic sync engine against a gallery server.

Mutations are applied locally first, sent to the server, then confirmed
or rolled back. Connection settings come from GALLERY_* environment
variables (or .env) and can be overridden with flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&opts.server, "server", "", "server base URL (GALLERY_SERVER_URL)")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "access token (GALLERY_TOKEN)")
	root.PersistentFlags().StringVar(&opts.surfacesPath, "surfaces", "", "surface definitions YAML (GALLERY_SURFACES_PATH)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "remote call timeout (GALLERY_REMOTE_TIMEOUT)")
	root.PersistentFlags().BoolVar(&opts.showMetrics, "metrics", false, "print sync metrics after the command")

	root.AddCommand(
		loginCmd(opts),
		meCmd(opts),
		admireCmd(opts),
		unadmireCmd(opts),
		followCmd(opts),
		unfollowCmd(opts),
		bulkFollowCmd(opts),
		listCmd(opts, "admirers", "admirers_modal", "List everyone who admired a post"),
		notesCmd(opts),
		listCmd(opts, "followers", "followers_modal", "List followers of a user"),
		watchCmd(opts),
		statsCmd(opts),
	)
	return root
}
