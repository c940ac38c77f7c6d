package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/whazzastream/backend/config"
	"github.com/whazzastream/backend/internal/domain"
	"github.com/whazzastream/backend/internal/domain/notification"
	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/crypto"
	"github.com/whazzastream/backend/pkg/discord"
	"github.com/whazzastream/backend/pkg/logger"
	"github.com/whazzastream/backend/pkg/router"
	"github.com/whazzastream/backend/pkg/xcontext"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	userRepo      repository.UserRepository
	messageRepo   repository.MessageRepository
	streamKeyRepo repository.StreamKeyRepository
	settingRepo   repository.SettingRepository

	hub      *notification.Hub
	presence *notification.PresenceTracker
	smilies  *domain.SmilieCatalogue
	economy  *domain.EconomyEngine

	authDomain   domain.AuthDomain
	chatDomain   domain.ChatDomain
	shopDomain   domain.ShopDomain
	streamDomain domain.StreamDomain
	adminDomain  domain.AdminDomain

	router *router.Router

	db      *gorm.DB
	logger  logger.Logger
	configs *config.Configs
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getDurationEnv(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		panic(err)
	}

	return d
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "whazzastream"),
			User:     getEnv("MYSQL_USER", "whazzastream"),
			Password: getEnv("MYSQL_PASSWORD", "whazzastream"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("HOST", "0.0.0.0"),
			Port: getEnv("PORT", "8080"),
			Cert: getEnv("SERVER_CERT", ""),
			Key:  getEnv("SERVER_KEY", ""),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getDurationEnv("ACCESS_TOKEN_DURATION", "24h"),
			},
		},
		Session: config.SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session_secret"),
			Name:   getEnv("SESSION_NAME", "whazza_session"),
		},
		Stream: config.StreamConfigs{
			BaseURL:            getEnv("STREAM_BASE_URL", "http://localhost:8088/hls"),
			HlsTokenExpiration: getDurationEnv("HLS_TOKEN_DURATION", "6h"),
		},
		File: config.FileConfigs{
			SmiliePath: getEnv("SMILIE_PATH", "./data/smilies.json"),
			SmilieDir:  getEnv("SMILIE_DIR", "./web/static/smilies"),
			ConfigPath: getEnv("CONFIG_PATH", "./data/config.ini"),
		},
		Admin: config.AdminConfigs{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Color:    getEnv("ADMIN_COLOR", "#ff0000"),
		},
	}
}

func (s *srv) loadLogger() {
	s.logger = logger.NewZapLogger(getEnv("LOG_LEVEL", "INFO"), s.configs.Env == "local")
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	ctx := xcontext.WithDB(context.Background(), s.db)
	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.messageRepo = repository.NewMessageRepository()
	s.streamKeyRepo = repository.NewStreamKeyRepository()
	s.settingRepo = repository.NewSettingRepository()
}

func (s *srv) loadDomains() {
	s.hub = notification.NewHub()
	s.presence = notification.NewPresenceTracker(s.hub, s.userRepo)
	s.smilies = domain.NewSmilieCatalogue(s.configs.File.SmiliePath, s.settingRepo)
	s.economy = domain.NewEconomyEngine(s.userRepo, s.settingRepo, s.smilies)

	s.authDomain = domain.NewAuthDomain(s.userRepo, s.settingRepo)
	s.chatDomain = domain.NewChatDomain(s.userRepo, s.messageRepo, s.economy, s.hub, s.presence)
	s.shopDomain = domain.NewShopDomain(s.userRepo, s.economy, s.smilies, s.hub)
	s.streamDomain = domain.NewStreamDomain(s.userRepo, s.settingRepo, s.streamKeyRepo, s.smilies)
	s.adminDomain = domain.NewAdminDomain(
		s.userRepo, s.messageRepo, s.streamKeyRepo, s.settingRepo,
		s.smilies, s.presence, s.hub, discord.NewWebhook(),
	)
}

// seedAdmin makes sure the configured admin account exists. An already
// existing account is left untouched.
func (s *srv) seedAdmin() {
	if s.configs.Admin.Password == "" {
		s.logger.Warnf("No admin password configured, skipping admin seeding")
		return
	}

	hashed, err := crypto.HashPassword(s.configs.Admin.Password)
	if err != nil {
		panic(err)
	}

	ctx := xcontext.WithDB(context.Background(), s.db)
	admin := entity.NewUser(s.configs.Admin.Username, hashed, s.configs.Admin.Color, true)
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if !errors.Is(err, repository.ErrDuplicated) {
			panic(err)
		}
	}
}
