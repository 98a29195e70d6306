package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leet_tracker/internal/app/service"
	"leet_tracker/internal/domain/repository"
	"leet_tracker/internal/platform/config"
	"leet_tracker/internal/platform/database"
	"leet_tracker/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:   "trackerctl",
	Short: "Maintenance commands for the interview practice tracker",
	Long: `trackerctl talks to the tracker database directly, using the same
configuration as the server (DB_DRIVER, DB_*, SQLITE_PATH, LOG_MODE).`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

// services is what every subcommand needs, opened from the environment.
type services struct {
	db        *sql.DB
	log       *logger.Logger
	questions *service.QuestionService
	progress  *service.ProgressService
}

func openServices(ctx context.Context) (*services, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBConnStr)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	questionRepo := repository.NewQuestionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	return &services{
		db:        db,
		log:       log,
		questions: service.NewQuestionService(questionRepo, progressRepo, log),
		progress:  service.NewProgressService(progressRepo, questionRepo, log),
	}, nil
}

func (s *services) Close() {
	s.log.Sync()
	s.db.Close()
}
