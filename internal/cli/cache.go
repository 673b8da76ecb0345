package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the shared recording cache",
}

var cacheForgetCmd = &cobra.Command{
	Use:   "forget [recording_id...]",
	Short: "Drop recordings from the shared cache, or all of them when no id is given",
	Run:   runCacheForget,
}

func init() {
	cacheCmd.AddCommand(cacheForgetCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheForget(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	app := newApp(ctx, nil)
	defer stopApp(app)

	if err := app.ForgetRecordings(ctx, args...); err != nil {
		slog.Error("Failed to update shared cache", "error", err)
		stopApp(app)
		os.Exit(1)
	}

	if len(args) == 0 {
		fmt.Println("Shared cache purged")
		return
	}
	fmt.Printf("Forgot %d recording(s)\n", len(args))
}
