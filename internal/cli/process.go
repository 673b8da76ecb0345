package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/oldestdate/internal/control"
	"github.com/vietddude/oldestdate/internal/core/config"
)

var (
	forceProcess  bool
	overwriteYear bool
	verbose       bool
)

var processCmd = &cobra.Command{
	Use:   "process [track_id...]",
	Short: "Resolve and store recording dates for library tracks",
	Long:  `Process the given tracks, or the whole library when no id is given.`,
	Run:   runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&forceProcess, "force", false, "reprocess tracks that already have a recording year")
	processCmd.Flags().BoolVar(&overwriteYear, "overwrite-year", false, "also overwrite the track's year")
	processCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print one line per track")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := newApp(ctx, func(cfg *config.AppConfig) {
		if cmd.Flags().Changed("force") {
			cfg.Library.Force = forceProcess
		}
		if cmd.Flags().Changed("overwrite-year") {
			cfg.Library.OverwriteYear = overwriteYear
		}
	})
	defer stopApp(app)

	if err := app.RequireLibrary(); err != nil {
		slog.Error("Cannot process library", "error", err)
		stopApp(app)
		os.Exit(1)
	}

	if err := app.Start(ctx); err != nil {
		slog.Error("Failed to start app", "error", err)
		return
	}

	summary, err := app.Processor.Run(ctx, args)
	if err != nil {
		slog.Error("Run aborted", "error", err)
	}
	if summary == nil {
		stopApp(app)
		os.Exit(1)
	}

	printSummary(summary)
}

func printSummary(summary *control.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)

	if verbose {
		_, _ = fmt.Fprintln(w, "TRACK\tRESULT\tDATE")
		for _, o := range summary.Outcomes {
			date := ""
			if o.Result == control.ResultUpdated {
				date = o.Date.String()
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", o.TrackID, o.Result, date)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "RUN\t%s\n", summary.RunID)
	for _, r := range []control.Result{
		control.ResultUpdated,
		control.ResultNotFound,
		control.ResultFailed,
		control.ResultSkippedProcessed,
		control.ResultSkippedNoID,
	} {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", r, summary.Counts[r])
	}
	_ = w.Flush()
}
