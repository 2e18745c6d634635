package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var armNetwork string

var armCmd = &cobra.Command{
	Use:   "arm",
	Short: "Arm the selected networks",
	Run:   func(cmd *cobra.Command, args []string) { setArmed(true) },
}

var disarmCmd = &cobra.Command{
	Use:   "disarm",
	Short: "Disarm the selected networks",
	Run:   func(cmd *cobra.Command, args []string) { setArmed(false) },
}

func setArmed(armed bool) {
	api, err := sessionClient()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	if err := api.Init(ctx, armNetwork); err != nil {
		log.Fatalf("Fatal: %v", err)
	}

	results, err := api.SetArmed(ctx, armed)
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}

	state := "disarmed"
	if armed {
		state = "armed"
	}
	for id := range results {
		fmt.Printf("Network %d %s.\n", id, state)
	}
}

func init() {
	rootCmd.AddCommand(armCmd)
	rootCmd.AddCommand(disarmCmd)
	armCmd.Flags().StringVar(&armNetwork, "network", "", "Restrict to one network by name or id")
	disarmCmd.Flags().StringVar(&armNetwork, "network", "", "Restrict to one network by name or id")
}
