package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the library and dependency status",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	app := newApp(ctx, nil)
	defer stopApp(app)

	report, err := app.Status(ctx)
	if err != nil {
		slog.Error("Failed to get status", "error", err)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "LIBRARY\tVALUE")
	_, _ = fmt.Fprintf(w, "storage\t%s\n", report.Storage)
	_, _ = fmt.Fprintf(w, "tracks\t%d\n", report.Library.Total)
	_, _ = fmt.Fprintf(w, "with recording id\t%d\n", report.Library.WithRecording)
	_, _ = fmt.Fprintf(w, "processed\t%d\n", report.Library.Processed)
	if report.SharedCache >= 0 {
		_, _ = fmt.Fprintf(w, "shared cache entries\t%d\n", report.SharedCache)
	} else {
		_, _ = fmt.Fprintln(w, "shared cache entries\tdisabled")
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "COMPONENT\tSTATUS\tDETAIL")
	names := make([]string, 0, len(report.Health.Components))
	for name := range report.Health.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := report.Health.Components[name]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, c.Status, c.Detail)
	}
	_ = w.Flush()
}
