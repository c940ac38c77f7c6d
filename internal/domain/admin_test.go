package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whazzastream/backend/internal/domain/notification"
	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/model"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/discord"
	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/testutil"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gopkg.in/ini.v1"
)

func Test_adminDomain_CreateUser(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	settingRepo := repository.NewSettingRepository()
	hub := notification.NewHub()
	defer hub.Close()
	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, settingRepo)
	d := NewAdminDomain(
		userRepo, repository.NewMessageRepository(), repository.NewStreamKeyRepository(),
		settingRepo, smilies, presence, hub, discord.NewWebhook(),
	)

	_, err := d.CreateUser(ctx, &model.CreateUserRequest{
		Username: "carol",
		Password: "carols-password",
		Color:    "#123456",
	})
	require.NoError(t, err)

	carol, err := userRepo.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, "#123456", carol.Color)
	require.True(t, carol.IsActive)

	// The starter smilie is seeded on creation.
	require.True(t, carol.UnlockedSmilies.Contains("melting"))

	// A duplicate username is a conflict, not an internal error.
	_, err = d.CreateUser(ctx, &model.CreateUserRequest{Username: "carol", Password: "x"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func Test_adminDomain_AdminAccountsAreProtected(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	settingRepo := repository.NewSettingRepository()
	hub := notification.NewHub()
	defer hub.Close()
	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, settingRepo)
	d := NewAdminDomain(
		userRepo, repository.NewMessageRepository(), repository.NewStreamKeyRepository(),
		settingRepo, smilies, presence, hub, discord.NewWebhook(),
	)

	_, err := d.DeleteUser(ctx, &model.DeleteUserRequest{Username: "admin"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)

	inactive := false
	_, err = d.ToggleUser(ctx, &model.ToggleUserRequest{Username: "admin", Active: &inactive})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)

	// Regular accounts can be deleted and deactivated.
	_, err = d.DeleteUser(ctx, &model.DeleteUserRequest{Username: "bob"})
	require.NoError(t, err)

	_, err = d.ToggleUser(ctx, &model.ToggleUserRequest{Username: "alice", Active: &inactive})
	require.NoError(t, err)

	alice, err := userRepo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.False(t, alice.IsActive)
}

func Test_adminDomain_ClearChat(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	messageRepo := repository.NewMessageRepository()
	settingRepo := repository.NewSettingRepository()
	hub := notification.NewHub()
	defer hub.Close()
	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, settingRepo)
	d := NewAdminDomain(
		userRepo, messageRepo, repository.NewStreamKeyRepository(),
		settingRepo, smilies, presence, hub, discord.NewWebhook(),
	)

	require.NoError(t, messageRepo.Create(ctx, &entity.Message{Username: "alice", Text: "hi"}))
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{Username: "bob", Text: "yo"}))

	_, err := d.ClearChat(ctx, &model.ClearChatRequest{})
	require.NoError(t, err)

	stored, err := messageRepo.GetLast(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func Test_adminDomain_StreamKeys(t *testing.T) {
	ctx := testutil.MockContext(t)
	userRepo := repository.NewUserRepository()
	settingRepo := repository.NewSettingRepository()
	hub := notification.NewHub()
	defer hub.Close()
	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, settingRepo)
	d := NewAdminDomain(
		userRepo, repository.NewMessageRepository(), repository.NewStreamKeyRepository(),
		settingRepo, smilies, presence, hub, discord.NewWebhook(),
	)

	_, err := d.AddStreamKey(ctx, &model.AddStreamKeyRequest{Key: "live-main"})
	require.NoError(t, err)

	_, err = d.AddStreamKey(ctx, &model.AddStreamKeyRequest{Key: "live-main"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	// An empty key gets generated.
	_, err = d.AddStreamKey(ctx, &model.AddStreamKeyRequest{})
	require.NoError(t, err)

	keys, err := d.ListStreamKeys(ctx, &model.ListStreamKeysRequest{})
	require.NoError(t, err)
	require.Len(t, keys.Keys, 2)

	_, err = d.DeleteStreamKey(ctx, &model.DeleteStreamKeyRequest{ID: keys.Keys[0].ID})
	require.NoError(t, err)

	keys, err = d.ListStreamKeys(ctx, &model.ListStreamKeysRequest{})
	require.NoError(t, err)
	require.Len(t, keys.Keys, 1)
}

func Test_adminDomain_UpdateRewards(t *testing.T) {
	ctx := testutil.MockContext(t)
	userRepo := repository.NewUserRepository()
	settingRepo := repository.NewSettingRepository()
	hub := notification.NewHub()
	defer hub.Close()
	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, settingRepo)
	d := NewAdminDomain(
		userRepo, repository.NewMessageRepository(), repository.NewStreamKeyRepository(),
		settingRepo, smilies, presence, hub, discord.NewWebhook(),
	)

	_, err := d.UpdateRewards(ctx, &model.UpdateRewardsRequest{
		SmilieCost:          75,
		DailyBonus:          30,
		StreamBonusPoints:   15,
		StreamBonusInterval: 45,
	})
	require.NoError(t, err)

	setting, err := settingRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 75, setting.SmilieCost)
	require.Equal(t, 30, setting.DailyBonus)
	require.Equal(t, 15, setting.StreamBonusPoints)
	require.Equal(t, 45, setting.StreamBonusInterval)

	// A zero interval would turn the watch bonus into a faucet.
	_, err = d.UpdateRewards(ctx, &model.UpdateRewardsRequest{StreamBonusInterval: 0})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_adminDomain_DiscordWebhookConfig(t *testing.T) {
	ctx := testutil.MockContext(t)
	userRepo := repository.NewUserRepository()
	settingRepo := repository.NewSettingRepository()
	hub := notification.NewHub()
	defer hub.Close()
	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, settingRepo)
	d := NewAdminDomain(
		userRepo, repository.NewMessageRepository(), repository.NewStreamKeyRepository(),
		settingRepo, smilies, presence, hub, discord.NewWebhook(),
	)

	// Sending without a configured webhook is a config error for the
	// admin, not a crash.
	_, err := d.SendDiscord(ctx, &model.SendDiscordRequest{Text: "going live"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = d.UpdateDiscordWebhook(ctx, &model.UpdateDiscordWebhookRequest{
		WebhookURL: "https://discord.example/webhook",
		Username:   "StreamBot",
	})
	require.NoError(t, err)

	file, err := ini.Load(xcontext.Configs(ctx).File.ConfigPath)
	require.NoError(t, err)
	section := file.Section("discord")
	require.Equal(t, "https://discord.example/webhook", section.Key("webhook_url").String())
	require.Equal(t, "StreamBot", section.Key("webhook_username").String())
}
