package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/whazzastream/backend/config"
	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/pkg/authenticator"
	"github.com/whazzastream/backend/pkg/logger"
	"github.com/whazzastream/backend/pkg/session"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockContext returns a context carrying everything a domain needs: an
// in-memory database with migrated tables, test configs, a logger, a token
// engine, and a session store.
func MockContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("cannot open in-memory database: %v", err)
	}

	cfg := MockConfigs(t)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, session.NewCookieStore(cfg.Session.Name, []byte(cfg.Session.Secret)))

	if err := entity.MigrateTable(ctx); err != nil {
		t.Fatalf("cannot migrate tables: %v", err)
	}

	return ctx
}

func MockContextWithUsername(t *testing.T, username string) context.Context {
	return xcontext.WithRequestUsername(MockContext(t), username)
}

func MockConfigs(t *testing.T) config.Configs {
	dir := t.TempDir()
	return config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			TokenSecret: "token-secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Hour,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "test_session",
		},
		Stream: config.StreamConfigs{
			BaseURL:            "http://localhost:8088/hls",
			HlsTokenExpiration: time.Hour,
		},
		File: config.FileConfigs{
			SmiliePath: filepath.Join(dir, "smilies.json"),
			SmilieDir:  filepath.Join(dir, "smilies"),
			ConfigPath: filepath.Join(dir, "config.ini"),
		},
		Admin: config.AdminConfigs{
			Username: "admin",
			Password: "admin-password",
			Color:    "#ff0000",
		},
	}
}
