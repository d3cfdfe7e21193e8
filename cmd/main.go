package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kyz7/backoffice/internal/admin"
	"github.com/Kyz7/backoffice/internal/auth"
	"github.com/Kyz7/backoffice/internal/cache"
	"github.com/Kyz7/backoffice/internal/config"
	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/logger"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/server"
	"github.com/Kyz7/backoffice/internal/taxonomy"
	"github.com/Kyz7/backoffice/internal/utils"

	"github.com/rs/zerolog/log"
)

const permissionCacheTTL = 5 * time.Minute

func main() {
	rollback := flag.String("rollback", "", "roll back one SQL migration by file name and exit")
	flag.Parse()

	cfg := config.Load()
	logger.Setup(cfg.LogLevel, !cfg.IsProduction())

	if err := utils.ValidateJWTSecret(); err != nil {
		if cfg.IsProduction() {
			log.Fatal().Err(err).Msg("❌ JWT configuration error")
		}
		log.Warn().Err(err).Msg("⚠️  JWT secret is weak, acceptable outside production only")
	}

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Database connection failed")
	}

	if *rollback != "" {
		if err := database.RollbackMigration(db, "./migrations", *rollback); err != nil {
			log.Fatal().Err(err).Msg("❌ Rollback failed")
		}
		applied, err := database.GetAppliedMigrations(db)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to list migrations")
		}
		log.Info().Int("applied", len(applied)).Str("version", *rollback).Msg("✅ Migration rolled back")
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("❌ Migration failed")
	}
	log.Info().Msg("✅ Database migrated")

	if err := database.RunMigrations(db, "./migrations"); err != nil {
		log.Warn().Err(err).Msg("⚠️  SQL migrations failed, listing indexes may be missing")
	}

	// ========== PERMISSION CACHE ==========
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️  Redis unavailable, permission checks go to the database")
		} else {
			cache.Permissions = cache.NewPermissionCache(rdb, permissionCacheTTL)
			log.Info().Msg("✅ Permission cache enabled")
		}
	}

	// ========== SEED DEFAULT DATA ==========
	if err := taxonomy.SeedFromFile(db, cfg.SeedFile); err != nil {
		log.Warn().Err(err).Msg("⚠️  Failed to seed taxonomy")
	}
	if err := admin.SeedBootstrapAdmin(context.Background(), cfg.BootstrapAdmin); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create bootstrap admin")
	}

	if auth.InitGoogle(cfg) {
		log.Info().Msg("🔐 Google sign-in enabled")
	}

	// ========== BACKGROUND JOBS ==========
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			result := database.DB.Where("expires_at < ? OR revoked = ?", time.Now(), true).Delete(&models.RefreshToken{})
			if result.Error != nil {
				log.Warn().Err(result.Error).Msg("refresh token cleanup failed")
				continue
			}
			if result.RowsAffected > 0 {
				log.Info().Int64("removed", result.RowsAffected).Msg("🧹 Cleaned up refresh tokens")
			}
		}
	}()

	// ========== START SERVER ==========
	app := server.New(db, cfg)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.ServerAddr).Msg("🚀 Back office server starting")
	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}
