package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/recipeinbox/backend/internal/config"
	"github.com/recipeinbox/backend/internal/migration"
	"github.com/recipeinbox/backend/internal/repository"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	dryRun := flag.Bool("dry-run", false, "list the tables that would be migrated without touching the database")
	pruneSessions := flag.Bool("prune-sessions", false, "delete expired sessions after migrating")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	config.LoadDotEnv(".", env)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	pkglogger.InitStructured(cfg.Server.Env, cfg.Log.Level)
	log := pkglogger.GetLogger()

	if *dryRun {
		for _, name := range migration.TableNames() {
			fmt.Println(name)
		}
		return
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get underlying DB")
	}
	defer sqlDB.Close()

	start := time.Now()
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Dur("took", time.Since(start)).Strs("tables", migration.TableNames()).Msg("migration complete")

	if *pruneSessions {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := repository.NewSessionRepository(db).DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("failed to prune sessions")
			return
		}
		log.Info().Int64("deleted", n).Msg("expired sessions pruned")
	}
}
