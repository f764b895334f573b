package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/equilibri/internal/app"
	"github.com/dmitrijs2005/equilibri/internal/cli"
	"github.com/dmitrijs2005/equilibri/internal/common"
	"github.com/dmitrijs2005/equilibri/internal/config"
	"github.com/dmitrijs2005/equilibri/internal/logging"
)

func main() {

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	core, err := app.New(ctx, cfg, logger)
	if err != nil {
		if errors.Is(err, common.ErrStorageUnavailable) {
			log.Fatalf("Failed to establish a database connection! %v", err)
		}
		log.Fatalf("%v", err)
	}
	defer core.Close()

	cli.NewApp(core, os.Stdin, os.Stdout).Run(ctx)

}
