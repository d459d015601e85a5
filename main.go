package main

import (
	"os"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"

	"github.com/idelchi/sharestat/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	log.SetHandler(clihandler.New(os.Stderr))

	if err := cli.New(version).Execute(); err != nil {
		log.WithError(err).Error("sharestat failed")
		os.Exit(1)
	}
}
