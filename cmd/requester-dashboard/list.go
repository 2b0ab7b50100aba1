package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"requester-dashboard/internal/config"
	"requester-dashboard/internal/dashboard"
	"requester-dashboard/internal/util"
)

func newListCmd(cfg *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the request table and summary counts",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateClient(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := newGateway(*cfg, newLogger(cfg.LogLevel, cmd.ErrOrStderr()), nil)
			if err != nil {
				return err
			}
			recs, err := gw.ListRequests(cmd.Context())
			if err != nil {
				return err
			}

			st := dashboard.Reduce(dashboard.Initial(), dashboard.ActionListLoaded{Records: recs})
			if asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), util.MustJSON(st.Records()))
				return nil
			}
			return printTable(cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func printTable(w io.Writer, st dashboard.State) error {
	m := st.Metrics()
	fmt.Fprintf(w, "Total Requests: %d   Pending Requests: %d   Completed Requests: %d\n\n", m.Total, m.Pending, m.Completed)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REQID\tTIMESTAMP\tPROJECT TITLE\tASSIGNED TO\tSTATUS")
	for _, r := range st.Records() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ReferenceNumber, r.Timestamp.String(), r.ProjectTitle, r.AssigneeLabel(), r.Status)
	}
	return tw.Flush()
}
