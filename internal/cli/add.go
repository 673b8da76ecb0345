package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/oldestdate/internal/core/domain"
)

var (
	addID     string
	addArtist string
	addTitle  string
	addDate   string
)

var addCmd = &cobra.Command{
	Use:   "add [recording_id]",
	Short: "Add a track to the library",
	Long:  `Add a track to the library. Omit the recording id for tracks that are not matched yet.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "track id (generated when empty)")
	addCmd.Flags().StringVar(&addArtist, "artist", "", "track artist")
	addCmd.Flags().StringVar(&addTitle, "title", "", "track title")
	addCmd.Flags().StringVar(&addDate, "date", "", "date embedded in the file (YYYY[-MM[-DD]])")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	track := &domain.Track{
		ID:     addID,
		Artist: addArtist,
		Title:  addTitle,
	}
	if len(args) == 1 {
		track.RecordingID = args[0]
	}

	if addDate != "" {
		d, err := domain.ParseDate(addDate)
		if err != nil {
			fmt.Printf("Invalid date: %v\n", err)
			os.Exit(1)
		}
		track.Year = d.Year()
		if month, ok := d.Month(); ok {
			track.Month = month
			if day, ok := d.Day(); ok {
				track.Day = day
			}
		}
	}

	ctx := context.Background()
	app := newApp(ctx, nil)
	defer stopApp(app)

	if err := app.RequireLibrary(); err != nil {
		slog.Error("Cannot add track", "error", err)
		stopApp(app)
		os.Exit(1)
	}

	if err := app.AddTrack(ctx, track); err != nil {
		slog.Error("Failed to add track", "error", err)
		stopApp(app)
		os.Exit(1)
	}

	fmt.Println(track.ID)
}
