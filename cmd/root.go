package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danbovey/blink-camera-system/internal/config"
	"github.com/danbovey/blink-camera-system/pkg/client"
)

var cfgFile string
var jsonOutput bool
var debugTrace bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blink-camera-system",
	Short: "A client for the Blink home-security camera cloud API",
	Long: `Authenticate against the Blink cloud service, discover your
networks and cameras, and arm, disarm, snapshot, or pull motion clips
from them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.blink-camera-system.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&debugTrace, "debug", false, "Trace API requests")
}

// sessionClient builds a client from the saved token. Commands other
// than login expect a prior 'login' run (or token/region_tier set in
// the config file or BLINK_* environment).
func sessionClient() (*client.Client, error) {
	token := viper.GetString("token")
	tier := viper.GetString("region_tier")
	if token == "" || tier == "" {
		return nil, fmt.Errorf("no saved session; run 'blink-camera-system login' first")
	}
	return client.New(client.Config{
		Token:      token,
		RegionTier: tier,
		DeviceID:   viper.GetString("device_id"),
		Debug:      debugTrace,
	}), nil
}
