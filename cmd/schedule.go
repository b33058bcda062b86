package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Inspect weekly access schedules",
}

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var scheduleListCmd = &cobra.Command{
	Use:   "list [device_id]",
	Short: "List schedules, optionally for a single device",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		deviceID := ""
		if len(args) > 0 {
			deviceID = args[0]
		}

		schedules, err := provider.ListSchedules(ctx, deviceID)
		if err != nil {
			slog.Error("Failed to list schedules", "error", err)
			os.Exit(1)
		}

		if len(schedules) == 0 {
			fmt.Println("No schedules found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDEVICE ID\tDAY\tOPEN\tCLOSE")
		for _, schedule := range schedules {
			day := fmt.Sprintf("%d", schedule.DayOfWeek)
			if schedule.DayOfWeek >= 0 && schedule.DayOfWeek <= 6 {
				day = dayNames[schedule.DayOfWeek]
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				schedule.ID,
				schedule.DeviceID,
				day,
				schedule.OpenTime,
				schedule.CloseTime,
			)
		}
		w.Flush()
	},
}

func init() {
	scheduleCmd.AddCommand(scheduleListCmd)
	rootCmd.AddCommand(scheduleCmd)
}
