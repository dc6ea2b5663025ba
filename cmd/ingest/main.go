package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/Lee-Rose/python-final-diplom/internal/catalog"
	"github.com/Lee-Rose/python-final-diplom/internal/ingest"
	"github.com/Lee-Rose/python-final-diplom/pkg/config"
	"github.com/Lee-Rose/python-final-diplom/pkg/db"
	"github.com/Lee-Rose/python-final-diplom/pkg/logger"
	"github.com/Lee-Rose/python-final-diplom/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "ingest"})

	_ = godotenv.Load()

	file := flag.String("file", "", "path to a YAML price list on disk")
	feedURL := flag.String("url", "", "URL of a YAML price list to fetch")
	flag.Parse()

	if (*file == "") == (*feedURL == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -file or -url is required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "ingest",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient)
	requireResource(logg, "catalog service", err)

	httpClient := &http.Client{Timeout: cfg.Ingest.HTTPTimeout}
	svc, err := ingest.NewService(catalogService, httpClient, cfg.Ingest.MaxFeedMB, nil, logg)
	requireResource(logg, "ingest service", err)

	var report *ingest.Report
	if *file != "" {
		report, err = svc.ApplyFile(ctx, *file)
	} else {
		report, err = svc.ApplyURL(ctx, *feedURL)
	}
	if err != nil {
		logg.Error(ctx, "failed to apply feed", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
