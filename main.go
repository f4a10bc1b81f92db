package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/noamichael/fitsview/internal/cli"
	"github.com/noamichael/fitsview/internal/logging"
)

func main() {
	// Set up basic logging until the configuration is loaded
	logging.Setup("info", "console")

	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
