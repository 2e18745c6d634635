package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var camerasNetwork string

// camerasCmd lists the discovered devices on the account.
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "List cameras and their current state",
	Run: func(cmd *cobra.Command, args []string) {
		api, err := sessionClient()
		if err != nil {
			log.Fatal(err)
		}
		if err := api.Init(context.Background(), camerasNetwork); err != nil {
			log.Fatalf("Fatal: %v", err)
		}

		devices := api.Devices()
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(devices); err != nil {
				log.Fatal(err)
			}
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tNETWORK\tSTATUS\tENABLED\tBATTERY\tWIFI")
		for _, d := range devices {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%t\t%s\t%d\n",
				d.ID, d.Name, d.Type, d.NetworkID, d.Status, d.Enabled, d.Battery, d.Signals.WiFi)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(camerasCmd)
	camerasCmd.Flags().StringVar(&camerasNetwork, "network", "", "Restrict to one network by name or id")
}
