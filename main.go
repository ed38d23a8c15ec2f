package main

import (
	"os"

	"github.com/ShenShiNing/new-tube/cmd"
	"github.com/ShenShiNing/new-tube/config"
	"github.com/rs/zerolog/log"
)

func main() {
	path, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	root := cmd.Root(cfg)
	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Send()
	}
}
