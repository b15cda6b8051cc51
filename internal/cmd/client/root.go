package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the RapidLogs client.
// It registers the logs command group.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "rapidlogs",
		Short: "RapidLogs client commands",
	}
	root.AddCommand(NewLogsCommand(baseURL))
	return root
}
