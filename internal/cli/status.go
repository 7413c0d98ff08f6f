package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/storyforge/internal/core/config"
	"github.com/vietddude/storyforge/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and queue state of a running instance",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	url := fmt.Sprintf("http://localhost:%d/health/detailed", cfg.Server.Port)
	resp, err := client.Get(url)
	if err != nil {
		slog.Error("Failed to reach instance", "url", url, "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var report status.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		slog.Error("Failed to decode report", "error", err)
		os.Exit(1)
	}

	fmt.Printf("status: %s\n", report.Status)
	fmt.Printf("online: %t\n", report.Online)
	fmt.Printf("queue:  %d items, %d pending, %d failed\n",
		report.QueueSize, report.Pending, report.FailedItems)

	if len(report.Items) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tRETRIES\tLAST ERROR")
	for _, it := range report.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			it.ID, it.Status, it.Priority, it.RetryCount, it.LastError)
	}
	_ = w.Flush()
}
