package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"door-command-control/internal/storage"
)

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Inspect pending overrides",
}

var overrideListCmd = &cobra.Command{
	Use:   "list [device_id]",
	Short: "List overrides that have not fired yet",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		filter := storage.OverrideFilter{}
		if len(args) > 0 {
			filter.DeviceID = args[0]
		}

		overrides, err := provider.ListActiveOverrides(ctx, time.Now(), filter)
		if err != nil {
			slog.Error("Failed to list overrides", "error", err)
			os.Exit(1)
		}

		if len(overrides) == 0 {
			fmt.Println("No pending overrides")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDEVICE ID\tUSER ID\tACTION\tTRIGGER AT")
		for _, override := range overrides {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
				override.ID,
				override.DeviceID,
				override.UserID,
				override.Action,
				override.TriggerAt.Format("2006-01-02 15:04:05"),
			)
		}
		w.Flush()
	},
}

func init() {
	overrideCmd.AddCommand(overrideListCmd)
	rootCmd.AddCommand(overrideCmd)
}
