package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/indieinfra/photobin/config"
	"github.com/indieinfra/photobin/server"
)

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	var z *zap.Logger
	var err error
	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(z)
	return z.Sugar(), nil
}

func main() {
	configFile := flag.String("config", "config.yml", "Path to the configuration file (i.e., /etc/photobin.yaml)")
	flag.Parse()

	if len(strings.Trim(*configFile, " ")) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting http server...")
	if err := server.StartServer(cfg, logger); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
