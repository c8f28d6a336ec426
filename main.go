package main

import (
	"os"

	"github.com/portseek/portseek/component/cli"
)

func main() {
	app := cli.NewApp()
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
