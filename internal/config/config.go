// Package config handles the CLI configuration file: credentials in,
// reusable session token out.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const fileBase = ".blink-camera-system"

// InitConfig reads in the config file and matching ENV variables.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(fileBase)
	}

	viper.SetEnvPrefix("BLINK")
	viper.AutomaticEnv()

	// Missing file is fine; flags and env still apply.
	_ = viper.ReadInConfig()
}

// SaveSession persists the reusable (token, region tier) pair plus the
// device identifier so later runs skip the full login.
func SaveSession(token, tier, deviceID string) error {
	viper.Set("token", token)
	viper.Set("region_tier", tier)
	viper.Set("device_id", deviceID)

	if err := viper.WriteConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.SafeWriteConfig()
		}
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return err
		}
		return viper.WriteConfigAs(filepath.Join(home, fileBase+".yaml"))
	}
	return nil
}
