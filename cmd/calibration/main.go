package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	calibrationcmd "github.com/louisbranch/llzcal/internal/cmd/calibration"
	entrypoint "github.com/louisbranch/llzcal/internal/platform/cmd"
)

func main() {
	cfg, err := calibrationcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceCalibration))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := calibrationcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
