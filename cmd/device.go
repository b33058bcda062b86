package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"door-command-control/internal/engine"
	"door-command-control/internal/storage"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage door lock devices",
	Long:  `Inspect registered devices and send manual commands from the command line.`,
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered devices",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		devices, err := provider.ListDevices(ctx)
		if err != nil {
			slog.Error("Failed to list devices", "error", err)
			os.Exit(1)
		}

		if len(devices) == 0 {
			fmt.Println("No devices found")
			return
		}

		// Print table
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DEVICE ID\tNAME\tLOCATION\tSTATUS\tUPDATED AT")
		for _, device := range devices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				device.DeviceID,
				device.Name,
				device.Location,
				device.Status,
				device.UpdatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		w.Flush()
	},
}

var deviceCommandCmd = &cobra.Command{
	Use:   "command <device_id> <lock|unlock>",
	Short: "Send a manual command to a device",
	Long:  `Enqueue a command for the device to collect on its next heartbeat, bypassing the reconciliation loop.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		deviceID := args[0]
		action := storage.Action(args[1])

		if !action.Valid() {
			fmt.Println("Action must be lock or unlock")
			os.Exit(1)
		}

		// Ensure the device exists before queueing anything for it.
		device, err := provider.GetDevice(ctx, deviceID)
		if err != nil {
			slog.Error("Failed to look up device", "device_id", deviceID, "error", err)
			os.Exit(1)
		}
		if device == nil {
			fmt.Printf("Device %s not found\n", deviceID)
			os.Exit(1)
		}

		ttl, _ := cmd.Flags().GetDuration("ttl")
		commands := engine.NewCommands(provider)
		command, err := commands.Enqueue(ctx, deviceID, action, time.Now().Add(ttl), nil)
		if err != nil {
			slog.Error("Failed to enqueue command", "device_id", deviceID, "error", err)
			os.Exit(1)
		}

		fmt.Printf("Command %d (%s) queued for device %s, expires %s\n",
			command.ID, command.Command, deviceID,
			command.ExpiresAt.Format("2006-01-02 15:04:05"))
	},
}

var deviceCommandsCmd = &cobra.Command{
	Use:   "commands <device_id>",
	Short: "List pending commands for a device",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		includeExecuted, _ := cmd.Flags().GetBool("all")
		commands, err := provider.ListCommands(ctx, args[0], includeExecuted)
		if err != nil {
			slog.Error("Failed to list commands", "error", err)
			os.Exit(1)
		}

		if len(commands) == 0 {
			fmt.Println("No commands found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMMAND\tEXECUTED\tEXPIRES AT\tCREATED AT")
		for _, command := range commands {
			fmt.Fprintf(w, "%d\t%s\t%t\t%s\t%s\n",
				command.ID,
				command.Command,
				command.Executed,
				command.ExpiresAt.Format("2006-01-02 15:04:05"),
				command.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		w.Flush()
	},
}

func init() {
	deviceCommandCmd.Flags().Duration("ttl", engine.DefaultCommandTTL, "validity window for the command")
	deviceCommandsCmd.Flags().Bool("all", false, "include executed commands")

	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceCommandCmd)
	deviceCmd.AddCommand(deviceCommandsCmd)
	rootCmd.AddCommand(deviceCmd)
}
