package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewLogsCommand constructs the `logs` command group and subcommands.
func NewLogsCommand(baseURL BaseURLFunc) *cobra.Command {
	logsCmd := &cobra.Command{Use: "logs", Short: "Log operations"}

	logsCmd.AddCommand(
		newLogsAddCommand(baseURL),
		newLogsQueryCommand(baseURL),
		newLogsAllCommand(baseURL),
		newLogsStatsCommand(baseURL),
	)

	return logsCmd
}

// newLogsAddCommand constructs the `logs add` subcommand.
func newLogsAddCommand(baseURL BaseURLFunc) *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Ingest one log record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			message, _ := cmd.Flags().GetString("message")
			tag, _ := cmd.Flags().GetString("tag")
			tsMs, _ := cmd.Flags().GetInt64("ts-ms")

			body := map[string]any{"message": message}
			if tag != "" {
				body["tag"] = tag
			}
			if tsMs > 0 {
				body["ts_ms"] = tsMs
			}
			b, _ := json.Marshal(body)
			resp, err := http.Post(baseURL()+"/v1/logs", "application/json", bytes.NewReader(b))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			return printResponse(cmd, resp)
		},
	}
	addCmd.Flags().String("message", "", "Log message (required)")
	addCmd.Flags().String("tag", "", "Optional tag")
	addCmd.Flags().Int64("ts-ms", 0, "Record timestamp in unix ms (default: server now)")
	_ = addCmd.MarkFlagRequired("message")
	return addCmd
}

// newLogsQueryCommand constructs the `logs query` subcommand.
func newLogsQueryCommand(baseURL BaseURLFunc) *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Query records in a time range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			filter, _ := cmd.Flags().GetString("filter")

			q := url.Values{}
			q.Set("start", start)
			q.Set("end", end)
			if filter != "" {
				q.Set("filter", filter)
			}
			resp, err := http.Get(baseURL() + "/v1/logs?" + q.Encode())
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			return printResponse(cmd, resp)
		},
	}
	queryCmd.Flags().String("start", "", "Range start, unix ms or RFC3339 (required)")
	queryCmd.Flags().String("end", "", "Range end, unix ms or RFC3339 (required)")
	queryCmd.Flags().String("filter", "", "Optional CEL filter, e.g. 'tag == \"db\"'")
	_ = queryCmd.MarkFlagRequired("start")
	_ = queryCmd.MarkFlagRequired("end")
	return queryCmd
}

// newLogsAllCommand constructs the `logs all` subcommand.
func newLogsAllCommand(baseURL BaseURLFunc) *cobra.Command {
	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Dump every record, cache and store combined",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			u := baseURL() + "/v1/logs/all"
			if filter != "" {
				q := url.Values{}
				q.Set("filter", filter)
				u += "?" + q.Encode()
			}
			resp, err := http.Get(u)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			return printResponse(cmd, resp)
		},
	}
	allCmd.Flags().String("filter", "", "Optional CEL filter")
	return allCmd
}

// newLogsStatsCommand constructs the `logs stats` subcommand.
func newLogsStatsCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show node stats (cache, store, sweeper)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := http.Get(baseURL() + "/v1/stats")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			return printResponse(cmd, resp)
		},
	}
}

// printResponse pretty-prints a JSON API response, or the raw body when it
// is not JSON. Non-2xx statuses become errors.
func printResponse(cmd *cobra.Command, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), string(body))
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
