package cli

import (
	"github.com/spf13/cobra"
)

type AppConfig struct {
	homeDir            string
	configFile         string
	externalController string
	secret             string
	version            bool
}

type App struct {
	RootCmd *cobra.Command
	Config  *AppConfig
}
