package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

// loadSettings reads configPath, or the first config file found in the
// default locations, or the environment when there is no file at all.
func loadSettings(configPath string) (*entities.Settings, error) {
	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = entities.FindConfigFile()
		if err != nil {
			logger.Infof("No config file found (%v), reading settings from the environment", err)
			return entities.NewSettingsFromEnvironment()
		}
	}

	logger.Infof("Using config file: %s", cfgPath)
	return entities.NewSettings(cfgPath)
}

func configFlag(cmd *cobra.Command) string {
	configPath, _ := cmd.Flags().GetString("config")
	return configPath
}
