package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vietddude/oldestdate/internal/core/domain"
)

var (
	fallbackDate string
	checkWork    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [recording_id]",
	Short: "Print the oldest date of a MusicBrainz recording",
	Args:  cobra.ExactArgs(1),
	Run:   runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&fallbackDate, "fallback", "", "embedded date to start from (YYYY[-MM[-DD]])")
	resolveCmd.Flags().BoolVar(&checkWork, "has-work", false, "only report whether the recording is related to a work")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	var fallback *domain.PartialDate
	if fallbackDate != "" {
		d, err := domain.ParseDate(fallbackDate)
		if err != nil {
			fmt.Printf("Invalid fallback date: %v\n", err)
			os.Exit(1)
		}
		fallback = &d
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := newApp(ctx, nil)
	defer stopApp(app)

	if checkWork {
		ok, err := app.Resolver.HasWork(ctx, args[0])
		if err != nil {
			slog.Error("Failed to look up recording", "recording", args[0], "error", err)
			stopApp(app)
			os.Exit(1)
		}
		fmt.Println(ok)
		return
	}

	date, err := app.Resolver.OldestDate(ctx, args[0], fallback)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMissingRelations):
		slog.Error("No date found", "recording", args[0], "error", err)
		stopApp(app)
		os.Exit(2)
	case err != nil:
		slog.Error("Failed to resolve oldest date", "recording", args[0], "error", err)
		stopApp(app)
		os.Exit(1)
	}

	fmt.Println(date.String())
}
