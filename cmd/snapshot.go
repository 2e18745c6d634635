package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var snapshotOut string

// snapshotCmd triggers a fresh capture on one camera and writes the
// current thumbnail to disk.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot <camera-id>",
	Short: "Capture and download a snapshot from a camera",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("invalid camera id %q", args[0])
		}

		api, err := sessionClient()
		if err != nil {
			log.Fatal(err)
		}
		ctx := context.Background()
		if err := api.Init(ctx, ""); err != nil {
			log.Fatalf("Fatal: %v", err)
		}

		device := api.DeviceByID(id)
		if device == nil {
			log.Fatalf("no device with id %d", id)
		}

		if _, err := device.Snapshot(ctx); err != nil {
			log.Fatalf("snapshot failed: %v", err)
		}
		// Give the device a moment to upload, then pull the new image.
		if _, err := device.RefreshImage(ctx); err != nil {
			log.Fatalf("image refresh failed: %v", err)
		}
		data, err := device.FetchImageData(ctx)
		if err != nil {
			log.Fatalf("image download failed: %v", err)
		}

		out := snapshotOut
		if out == "" {
			out = fmt.Sprintf("%s-%d.jpg", device.Name, device.ID)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Wrote %d bytes to %s\n", len(data), out)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOut, "output", "o", "", "Output file (default <name>-<id>.jpg)")
}
