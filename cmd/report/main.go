package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	reportcmd "github.com/louisbranch/llzcal/internal/cmd/report"
	entrypoint "github.com/louisbranch/llzcal/internal/platform/cmd"
	"github.com/louisbranch/llzcal/internal/platform/config"
)

func main() {
	cfg, err := reportcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceReport))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := reportcmd.Run(ctx, cfg); err != nil {
		config.Exitf("Error: %v", err)
	}
}
