package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/mcstatus/internal/version"
)

var (
	apiBase string
	client  = &http.Client{Timeout: 30 * time.Second}
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mcstatus-cli",
		Short:        "Query a running mcstatus server",
		SilenceUsage: true,
	}

	defaultURL := os.Getenv("API_BASE")
	if defaultURL == "" {
		defaultURL = "http://localhost:3000"
	}
	root.PersistentFlags().StringVar(&apiBase, "api", defaultURL, "mcstatus API URL")

	root.AddCommand(newHealthCmd(), newStatusCmd(), newNotifyCmd(), newVersionCmd())
	return root
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the server's configuration and liveness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(cmd.OutOrStdout(), "/health")
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <domain>",
		Short: "Resolve and probe a domain without notifying",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(cmd.OutOrStdout(), "/status/"+url.PathEscape(strings.TrimSpace(args[0])))
		},
	}
}

func newNotifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify <domain>",
		Short: "Probe a domain and replace its Discord message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(cmd.OutOrStdout(), "/discord/"+url.PathEscape(strings.TrimSpace(args[0])))
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", version.GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Time: %s\n", version.BuildTime)
		},
	}
}

// fetch GETs path and pretty-prints the JSON answer. Non-2xx answers are
// printed too, then reported as an error.
func fetch(w io.Writer, path string) error {
	resp, err := client.Get(strings.TrimSuffix(apiBase, "/") + path)
	if err != nil {
		return fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		raw = pretty.Bytes()
	}
	fmt.Fprintln(w, string(raw))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API returned status: %s", resp.Status)
	}
	return nil
}
