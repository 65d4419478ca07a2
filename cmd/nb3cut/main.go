// The nb3cut command extracts the character portraits from Nobunaga's Ambition
// (Bushou Fuuunroku) LS11 archives into 64x80 bitmaps, colored with the
// palette stored in palette.nb3.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/dcrodman/nb3cut/internal"
	"github.com/dcrodman/nb3cut/internal/catalog"
	"github.com/dcrodman/nb3cut/internal/core"
)

var (
	configFlag = pflag.StringP("config", "c", "./", "Path to the directory containing config.yaml")
	listFlag   = pflag.BoolP("list", "l", false, "Print the track directory of each archive instead of extracting")

	// Overrides for the matching config.yaml keys. Unset flags leave the
	// configured value alone.
	_ = pflag.StringP("source-dir", "s", "", "Directory containing the archives (overrides source_dir)")
	_ = pflag.StringP("output-dir", "o", "", "Directory the bitmaps are written to (overrides output_dir)")
	_ = pflag.String("log-level", "", "Minimum log level: debug, info, warn, error (overrides log_level)")
)

func main() {
	pflag.Parse()
	os.Exit(run())
}

func run() int {
	fmt.Println("nb3cut - KOEI LS11 portrait extractor\n" +
		"=====================================")

	config, err := core.LoadConfig(*configFlag, pflag.CommandLine)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	logger, err := core.NewLogger(config)
	if err != nil {
		fmt.Println("error initializing logger:", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	controller := &internal.Controller{Config: config, Logger: logger}

	if *listFlag {
		if err := controller.List(ctx); err != nil {
			logger.Error(err)
			return 1
		}
		return 0
	}

	if config.Catalog.Enabled {
		db, err := catalog.Initialize(
			config.Catalog.Engine,
			config.CatalogDataSource(),
			config.Debugging.DatabaseLoggingEnabled,
		)
		if err != nil {
			logger.Errorf("error initializing catalog: %v", err)
			return 1
		}
		defer func() {
			if err := catalog.Shutdown(db); err != nil {
				logger.Warn(err)
			}
		}()
		controller.DB = db
	}

	// Run logs each failed archive itself.
	if err := controller.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted")
		}
		return 1
	}
	return 0
}
