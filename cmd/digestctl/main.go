// Package main implements digestctl, a small operational CLI that triggers
// the server's daily digest endpoint, either once or on a schedule.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// dailySchedule fires shortly after midnight so "today" has rolled over
// everywhere the server cares about.
const dailySchedule = "5 0 * * *"

var (
	serverURL string
	cronKey   string
	timezone  string
)

func main() {
	root := &cobra.Command{
		Use:   "digestctl",
		Short: "Trigger the LeetCoach daily digest",
		Long: "digestctl calls the server's digest endpoint with the shared cron key,\n" +
			"either once (run) or every day at 00:05 (cron).",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server-url", envOr("LEETCOACH_SERVER_URL", "http://localhost:8080"),
		"base URL of the API server")
	root.PersistentFlags().StringVar(&cronKey, "cron-key", os.Getenv("LEETCOACH_DIGEST_CRON_SECRET"),
		"shared secret for the digest endpoint")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Trigger one digest run and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return triggerDigest(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cronCmd := &cobra.Command{
		Use:   "cron",
		Short: "Trigger a digest run every day at 00:05",
		RunE:  runCron,
	}
	cronCmd.Flags().StringVar(&timezone, "timezone", envOr("LEETCOACH_DIGEST_TIMEZONE", "Local"),
		"IANA timezone for the schedule")

	root.AddCommand(runCmd, cronCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func triggerDigest(ctx context.Context, out io.Writer) error {
	if cronKey == "" {
		return fmt.Errorf("cron key is required (--cron-key or LEETCOACH_DIGEST_CRON_SECRET)")
	}

	url := strings.TrimRight(serverURL, "/") + "/api/cron/daily"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Cron-Key", cronKey)

	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call digest endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("digest endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// Reindent so operators get readable output regardless of server encoding.
	var pretty json.RawMessage = body
	formatted, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		formatted = body
	}
	fmt.Fprintln(out, string(formatted))
	return nil
}

func runCron(cmd *cobra.Command, args []string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}

	scheduler := cron.New(cron.WithLocation(loc))
	_, err = scheduler.AddFunc(dailySchedule, func() {
		if err := triggerDigest(cmd.Context(), cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "digest run failed: %v\n", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register schedule: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "scheduling daily digest at 00:05 %s\n", loc)
	scheduler.Start()

	<-cmd.Context().Done()
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
