package main

import (
	"context"
	"errors"
	"os"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/cmd"
)

func main() {
	rootCmd, err := cmd.BuildRootCommand()
	if err != nil {
		log.Error().Err(err).Msg("failed to build root command")
		os.Exit(1)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, cmd.ErrParsing) {
			log.Err(err).Msg("terminated with errors")
		}
		os.Exit(1)
	}
}
