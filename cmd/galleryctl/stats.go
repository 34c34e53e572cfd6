package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akinalp/gallery/remote"
)

func statsCmd(opts *options) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the server's mutation and connection metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := remote.NewHTTPClient(opts.server).Metrics(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			mutations := namespace + "_server_mutations_total"
			for _, s := range m.Samples(mutations) {
				fmt.Fprintf(out, "%-12s %-26s %g\n", s.Labels["op"], s.Labels["typename"], s.Value)
			}
			fmt.Fprintf(out, "mutations: %g\n", m.Sum(mutations))
			fmt.Fprintf(out, "ws clients: %g\n", m.Sum(namespace+"_server_ws_clients"))
			return nil
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "gallery", "server metrics namespace")
	return cmd
}
