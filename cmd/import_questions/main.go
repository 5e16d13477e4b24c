package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"certprep/database"
	"certprep/internal/adapter"
	"certprep/internal/adapter/blobstore"
	"certprep/internal/config"
	"certprep/internal/importer"
	"certprep/internal/logger"
	"certprep/internal/media"
	"certprep/internal/repository"
	"certprep/internal/service"
	"certprep/internal/textproc"

	"go.uber.org/zap"
)

func main() {
	containerID := flag.String("container", "", "ID of the container to import into")
	csvPath := flag.String("file", "", "path to the CSV export")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall import deadline")
	flag.Parse()

	if *containerID == "" || *csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: import_questions -container <id> -file <questions.csv>")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	l := logger.Get()

	l.Info("Import starting up",
		zap.String("container_id", *containerID),
		zap.String("file", *csvPath),
	)

	db, err := database.InitDB()
	if err != nil {
		l.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	file, err := os.Open(*csvPath)
	if err != nil {
		l.Fatal("Failed to open CSV file", zap.Error(err))
	}
	defer file.Close()

	// A one-shot CLI run has no second process to share cache state with,
	// so the in-process cache is enough.
	cacheAdapter := adapter.NewMemoryCacheAdapter()
	storage := blobstore.NewAzureBlobStorage(cfg.Storage)
	resolver := media.NewResolver(storage, cacheAdapter, cfg.Storage.CacheTTL, cfg.Storage.LocalBasePath)
	builder := importer.NewBuilder(textproc.NewPreprocessor(resolver), cfg.Import)

	questionRepo := repository.NewQuestionRepository(db)
	containerRepo := repository.NewContainerRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	importService := service.NewImportService(questionRepo, containerRepo, txManager, builder, resolver, cfg.Import.MaxRowErrors)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := importService.ImportCSV(ctx, file, *containerID)
	if err != nil {
		l.Fatal("Import failed", zap.Error(err))
	}

	l.Info("Import finished",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errored", result.Errored),
		zap.Int("media_resolved", result.MediaResolved),
	)
	for _, rowErr := range result.RowErrors {
		l.Warn("Row error", zap.String("error", rowErr))
	}
}
