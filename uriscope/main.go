package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/uriscope/uriscope/modules/cli"
	_ "github.com/uriscope/uriscope/modules/frontend"
	_ "github.com/uriscope/uriscope/modules/resolve"
)

func main() {
	err := cli.CliMainEntryPoint()

	if err != nil {
		log.Error().Msg(err.Error())
		os.Exit(1)
	}
}
