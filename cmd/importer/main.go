package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-poetry-web/internal/database"
	"github.com/palemoky/chinese-poetry-web/internal/loader"
	"github.com/palemoky/chinese-poetry-web/internal/logger"
	"github.com/palemoky/chinese-poetry-web/internal/processor"
)

var (
	inputPath string
	outputDB  string
	workers   int
	batchSize int
	fresh     bool
)

func main() {
	// The importer always logs at debug level
	logger.Init(true)
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:   "importer",
		Short: "Chinese Poetry Data Importer",
		Long:  "Import poem records from JSON files into the SQLite database served by the poem pages and the GraphQL API",
		RunE:  run,
	}

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "poetry-data", "JSON file or directory of JSON files with poem records")
	rootCmd.Flags().StringVarP(&outputDB, "output", "o", "poetry.db", "Output SQLite database")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent workers (0 = number of CPUs)")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Base number of poems per insert (0 = chosen from CPU count)")
	rootCmd.Flags().BoolVar(&fresh, "fresh", false, "Remove the output database before importing")

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger.Info("Loading poetry data", zap.String("input", inputPath))

	poems, err := loader.Load(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load poems: %w", err)
	}

	logger.Info("Loaded poems from JSON files", zap.Int("count", len(poems)))

	if fresh {
		if err := os.Remove(outputDB); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	// Single connection keeps SQLite writes serialized
	db, err := database.Open(outputDB, 1, 1)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := database.NewRepository(db)
	proc := processor.NewProcessor(repo, workers)
	proc.SetBatchSize(batchSize)

	runStats, err := proc.Process(poems)
	if err != nil {
		return fmt.Errorf("failed to process poems: %w", err)
	}

	logger.Info("Optimizing database")
	if err := db.Exec("ANALYZE").Error; err != nil {
		logger.Warn("Failed to analyze database", zap.Error(err))
	}

	dbStats, err := repo.GetStatistics()
	if err != nil {
		logger.Warn("Failed to read statistics", zap.Error(err))
		return nil
	}

	if err := processor.WriteReport(cmd.OutOrStdout(), runStats, dbStats); err != nil {
		logger.Warn("Failed to print statistics", zap.Error(err))
	}

	logger.Info("Import complete", zap.String("database", outputDB))
	return nil
}
