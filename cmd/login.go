package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danbovey/blink-camera-system/internal/config"
	"github.com/danbovey/blink-camera-system/pkg/client"
)

// Variables to hold flag values
var (
	loginUser    string
	loginPass    string
	loginDevice  string
	loginNetwork string
	loginUse2FA  bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the Blink cloud service",
	Long: `Logs in with your account credentials and saves the session token
locally so other commands can reuse it without a fresh login.

With --2fa the command prompts for the verification code the service
sends you; without it, a pending account verification is retried once
after the provider's approval window.

Example:
  blink-camera-system login -u me@example.com -p secret --2fa`,
	Run: func(cmd *cobra.Command, args []string) {
		deviceID := loginDevice
		if deviceID == "" {
			deviceID = viper.GetString("device_id")
		}
		if deviceID == "" {
			// Keep it stable across runs so the provider recognizes
			// this client and stops re-verifying it.
			deviceID = uuid.NewString()
		}

		cfg := client.Config{
			Username: loginUser,
			Password: loginPass,
			DeviceID: deviceID,
			Auth2FA:  loginUse2FA,
			Debug:    debugTrace,
		}
		if loginUse2FA {
			cfg.CodeProvider = client.TerminalCodeProvider(os.Stdin, os.Stdout)
		}

		fmt.Printf("Authenticating as '%s'...\n", loginUser)

		api := client.New(cfg)
		if err := api.Init(context.Background(), loginNetwork); err != nil {
			log.Fatalf("Fatal: login failed: %v", err)
		}

		if err := config.SaveSession(api.Token(), api.RegionTier(), deviceID); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Printf("Session saved (%d devices found). You can now run commands like 'blink-camera-system cameras'.\n", len(api.Devices()))
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPass, "password", "p", "", "Account password")
	loginCmd.Flags().StringVar(&loginDevice, "device-id", "", "Client device identifier (generated and saved if empty)")
	loginCmd.Flags().StringVar(&loginNetwork, "network", "", "Restrict to one network by name or id (default: all)")
	loginCmd.Flags().BoolVar(&loginUse2FA, "2fa", false, "Use the two-factor verification flow")

	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
}
