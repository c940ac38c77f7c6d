package domain

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/whazzastream/backend/internal/domain/notification"
	"github.com/whazzastream/backend/internal/domain/notification/event"
	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/model"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/crypto"
	"github.com/whazzastream/backend/pkg/discord"
	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gopkg.in/ini.v1"
	"gorm.io/gorm"
)

const discordEmbedColor = 0x7289da

var smilieNamePattern = regexp.MustCompile(`^\w+$`)

type AdminDomain interface {
	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.CreateUserResponse, error)
	DeleteUser(ctx context.Context, req *model.DeleteUserRequest) (*model.DeleteUserResponse, error)
	ChangePassword(ctx context.Context, req *model.ChangePasswordRequest) (*model.ChangePasswordResponse, error)
	ToggleUser(ctx context.Context, req *model.ToggleUserRequest) (*model.ToggleUserResponse, error)
	UpdateUser(ctx context.Context, req *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	GetUserInfo(ctx context.Context, req *model.GetUserInfoRequest) (*model.GetUserInfoResponse, error)
	ListUsers(ctx context.Context, req *model.ListUsersRequest) (*model.ListUsersResponse, error)
	ClearChat(ctx context.Context, req *model.ClearChatRequest) (*model.ClearChatResponse, error)
	AddStreamKey(ctx context.Context, req *model.AddStreamKeyRequest) (*model.AddStreamKeyResponse, error)
	DeleteStreamKey(ctx context.Context, req *model.DeleteStreamKeyRequest) (*model.DeleteStreamKeyResponse, error)
	ListStreamKeys(ctx context.Context, req *model.ListStreamKeysRequest) (*model.ListStreamKeysResponse, error)
	UpdateRewards(ctx context.Context, req *model.UpdateRewardsRequest) (*model.UpdateRewardsResponse, error)
	UpdateStreamSuffix(ctx context.Context, req *model.UpdateStreamSuffixRequest) (*model.UpdateStreamSuffixResponse, error)
	UpdateHlsSecret(ctx context.Context, req *model.UpdateHlsSecretRequest) (*model.UpdateHlsSecretResponse, error)
	UpdateDiscordWebhook(ctx context.Context, req *model.UpdateDiscordWebhookRequest) (*model.UpdateDiscordWebhookResponse, error)
	SendDiscord(ctx context.Context, req *model.SendDiscordRequest) (*model.SendDiscordResponse, error)
	UploadSmilie(ctx context.Context, req *model.UploadSmilieRequest) (*model.UploadSmilieResponse, error)
	DeleteSmilie(ctx context.Context, req *model.DeleteSmilieRequest) (*model.DeleteSmilieResponse, error)
	UpdateSmiliePrices(ctx context.Context, req *model.UpdateSmiliePricesRequest) (*model.UpdateSmiliePricesResponse, error)
}

type adminDomain struct {
	userRepo      repository.UserRepository
	messageRepo   repository.MessageRepository
	streamKeyRepo repository.StreamKeyRepository
	settingRepo   repository.SettingRepository
	smilies       *SmilieCatalogue
	presence      *notification.PresenceTracker
	hub           *notification.Hub
	webhook       *discord.Webhook
}

func NewAdminDomain(
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	streamKeyRepo repository.StreamKeyRepository,
	settingRepo repository.SettingRepository,
	smilies *SmilieCatalogue,
	presence *notification.PresenceTracker,
	hub *notification.Hub,
	webhook *discord.Webhook,
) *adminDomain {
	return &adminDomain{
		userRepo:      userRepo,
		messageRepo:   messageRepo,
		streamKeyRepo: streamKeyRepo,
		settingRepo:   settingRepo,
		smilies:       smilies,
		presence:      presence,
		hub:           hub,
		webhook:       webhook,
	}
}

func (d *adminDomain) CreateUser(
	ctx context.Context, req *model.CreateUserRequest,
) (*model.CreateUserResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, errorx.New(errorx.BadRequest, "Require username and password")
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	user := entity.NewUser(req.Username, hashed, req.Color, req.IsAdmin)
	if err := d.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicated) {
			return nil, errorx.New(errorx.AlreadyExists, "Username is already taken")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	d.presence.BroadcastOnlineUsers(ctx)
	return &model.CreateUserResponse{}, nil
}

func (d *adminDomain) DeleteUser(
	ctx context.Context, req *model.DeleteUserRequest,
) (*model.DeleteUserResponse, error) {
	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if user.IsAdmin {
		return nil, errorx.New(errorx.PermissionDenied, "Admin accounts cannot be deleted")
	}

	if err := d.userRepo.Delete(ctx, req.Username); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete user: %v", err)
		return nil, errorx.Unknown
	}

	d.presence.ForceDisconnect(ctx, req.Username)
	d.presence.BroadcastOnlineUsers(ctx)
	return &model.DeleteUserResponse{}, nil
}

func (d *adminDomain) ChangePassword(
	ctx context.Context, req *model.ChangePasswordRequest,
) (*model.ChangePasswordResponse, error) {
	if req.NewPassword == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a new password")
	}

	hashed, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	err = d.userRepo.UpdateByUsername(ctx, req.Username, map[string]any{"password": hashed})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot change password: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ChangePasswordResponse{}, nil
}

func (d *adminDomain) ToggleUser(
	ctx context.Context, req *model.ToggleUserRequest,
) (*model.ToggleUserResponse, error) {
	if req.Active == nil {
		return nil, errorx.New(errorx.BadRequest, "Require an active flag")
	}

	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if user.IsAdmin && !*req.Active {
		return nil, errorx.New(errorx.PermissionDenied, "Admin accounts cannot be deactivated")
	}

	err = d.userRepo.UpdateByUsername(ctx, req.Username, map[string]any{"is_active": *req.Active})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot toggle user: %v", err)
		return nil, errorx.Unknown
	}

	if !*req.Active {
		d.presence.ForceDisconnect(ctx, req.Username)
	}

	return &model.ToggleUserResponse{}, nil
}

func (d *adminDomain) UpdateUser(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	updates := map[string]any{}
	if req.NewPassword != "" {
		hashed, err := crypto.HashPassword(req.NewPassword)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
			return nil, errorx.Unknown
		}
		updates["password"] = hashed
	}

	if req.Color != nil {
		user.Color = *req.Color
		updates["color"] = *req.Color
	}

	if req.Points != nil {
		if *req.Points < 0 {
			return nil, errorx.New(errorx.BadRequest, "Points cannot be negative")
		}
		user.Points = *req.Points
		updates["points"] = *req.Points
	}

	if len(updates) == 0 {
		return &model.UpdateUserResponse{}, nil
	}

	if err := d.userRepo.UpdateByUsername(ctx, req.Username, updates); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Unknown
	}

	if req.Color != nil || req.Points != nil {
		points := user.Points
		d.hub.Emit(event.New(
			(*event.UserDataChangedEvent)(&model.UserData{
				Username: user.Username,
				Points:   &points,
				Color:    user.Color,
				Font:     user.Font,
				Effects:  user.EffectInventory,
			}),
			nil,
		))
		d.presence.BroadcastOnlineUsers(ctx)
	}

	return &model.UpdateUserResponse{}, nil
}

func (d *adminDomain) GetUserInfo(
	ctx context.Context, req *model.GetUserInfoRequest,
) (*model.GetUserInfoResponse, error) {
	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserInfoResponse{
		Username: user.Username,
		Color:    user.Color,
		Points:   user.Points,
		IsAdmin:  user.IsAdmin,
		IsActive: user.IsActive,
	}, nil
}

func (d *adminDomain) ListUsers(
	ctx context.Context, req *model.ListUsersRequest,
) (*model.ListUsersResponse, error) {
	users, err := d.userRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list users: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.ListUsersResponse{Users: make([]model.GetUserInfoResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, model.GetUserInfoResponse{
			Username: u.Username,
			Color:    u.Color,
			Points:   u.Points,
			IsAdmin:  u.IsAdmin,
			IsActive: u.IsActive,
		})
	}

	return resp, nil
}

func (d *adminDomain) ClearChat(
	ctx context.Context, req *model.ClearChatRequest,
) (*model.ClearChatResponse, error) {
	if err := d.messageRepo.DeleteAll(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear chat: %v", err)
		return nil, errorx.Unknown
	}

	d.hub.Emit(event.New(&event.ChatHistoryEvent{Messages: []model.ChatMessage{}}, nil))
	return &model.ClearChatResponse{}, nil
}

func (d *adminDomain) AddStreamKey(
	ctx context.Context, req *model.AddStreamKeyRequest,
) (*model.AddStreamKeyResponse, error) {
	key := strings.TrimSpace(req.Key)
	if key == "" {
		generated, err := crypto.GenerateRandomString()
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot generate stream key: %v", err)
			return nil, errorx.Unknown
		}
		key = generated
	}

	if err := d.streamKeyRepo.Create(ctx, &entity.StreamKey{Key: key}); err != nil {
		if errors.Is(err, repository.ErrDuplicated) {
			return nil, errorx.New(errorx.AlreadyExists, "Stream key already exists")
		}

		xcontext.Logger(ctx).Errorf("Cannot create stream key: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddStreamKeyResponse{}, nil
}

func (d *adminDomain) DeleteStreamKey(
	ctx context.Context, req *model.DeleteStreamKeyRequest,
) (*model.DeleteStreamKeyResponse, error) {
	if err := d.streamKeyRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete stream key: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteStreamKeyResponse{}, nil
}

func (d *adminDomain) ListStreamKeys(
	ctx context.Context, req *model.ListStreamKeysRequest,
) (*model.ListStreamKeysResponse, error) {
	keys, err := d.streamKeyRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list stream keys: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.ListStreamKeysResponse{Keys: make([]model.StreamKeyInfo, 0, len(keys))}
	for _, k := range keys {
		resp.Keys = append(resp.Keys, model.StreamKeyInfo{ID: k.ID, Key: k.Key})
	}

	return resp, nil
}

func (d *adminDomain) UpdateRewards(
	ctx context.Context, req *model.UpdateRewardsRequest,
) (*model.UpdateRewardsResponse, error) {
	if req.SmilieCost < 0 || req.DailyBonus < 0 || req.StreamBonusPoints < 0 {
		return nil, errorx.New(errorx.BadRequest, "Rewards cannot be negative")
	}

	if req.StreamBonusInterval < 1 {
		return nil, errorx.New(errorx.BadRequest, "Bonus interval must be at least one minute")
	}

	setting, err := d.settingRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get settings: %v", err)
		return nil, errorx.Unknown
	}

	setting.SmilieCost = req.SmilieCost
	setting.DailyBonus = req.DailyBonus
	setting.StreamBonusPoints = req.StreamBonusPoints
	setting.StreamBonusInterval = req.StreamBonusInterval
	if err := d.settingRepo.Update(ctx, setting); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update settings: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateRewardsResponse{}, nil
}

func (d *adminDomain) UpdateStreamSuffix(
	ctx context.Context, req *model.UpdateStreamSuffixRequest,
) (*model.UpdateStreamSuffixResponse, error) {
	suffix := strings.TrimSpace(req.StreamSuffix)
	if suffix == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a stream suffix")
	}

	setting, err := d.settingRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get settings: %v", err)
		return nil, errorx.Unknown
	}

	setting.StreamSuffix = suffix
	if err := d.settingRepo.Update(ctx, setting); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update settings: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateStreamSuffixResponse{}, nil
}

// UpdateHlsSecret rotates the HLS signing secret. An empty secret in the
// request rotates to a random one; every token signed before the rotation
// stops validating.
func (d *adminDomain) UpdateHlsSecret(
	ctx context.Context, req *model.UpdateHlsSecretRequest,
) (*model.UpdateHlsSecretResponse, error) {
	secret := req.Secret
	if secret == "" {
		generated, err := crypto.GenerateRandomString()
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot generate hls secret: %v", err)
			return nil, errorx.Unknown
		}
		secret = generated
	}

	setting, err := d.settingRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get settings: %v", err)
		return nil, errorx.Unknown
	}

	setting.HlsSecret = secret
	if err := d.settingRepo.Update(ctx, setting); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update settings: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateHlsSecretResponse{}, nil
}

func (d *adminDomain) UpdateDiscordWebhook(
	ctx context.Context, req *model.UpdateDiscordWebhookRequest,
) (*model.UpdateDiscordWebhookResponse, error) {
	path := xcontext.Configs(ctx).File.ConfigPath

	file, err := ini.LooseLoad(path)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load config file: %v", err)
		return nil, errorx.Unknown
	}

	section := file.Section("discord")
	section.Key("webhook_url").SetValue(req.WebhookURL)
	section.Key("webhook_username").SetValue(req.Username)
	section.Key("webhook_avatar").SetValue(req.AvatarURL)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create config directory: %v", err)
		return nil, errorx.Unknown
	}

	if err := file.SaveTo(path); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save config file: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateDiscordWebhookResponse{}, nil
}

func (d *adminDomain) SendDiscord(
	ctx context.Context, req *model.SendDiscordRequest,
) (*model.SendDiscordResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a message")
	}

	file, err := ini.LooseLoad(xcontext.Configs(ctx).File.ConfigPath)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load config file: %v", err)
		return nil, errorx.Unknown
	}

	section := file.Section("discord")
	cfg := discord.WebhookConfigs{
		URL:       section.Key("webhook_url").String(),
		Username:  section.Key("webhook_username").String(),
		AvatarURL: section.Key("webhook_avatar").String(),
	}

	if err := d.webhook.SendEmbed(ctx, cfg, text, discordEmbedColor); err != nil {
		if errors.Is(err, discord.ErrNoWebhook) {
			return nil, errorx.New(errorx.BadRequest, "Discord webhook is not configured")
		}

		xcontext.Logger(ctx).Errorf("Cannot send discord notification: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot reach the discord webhook")
	}

	return &model.SendDiscordResponse{}, nil
}

func (d *adminDomain) UploadSmilie(
	ctx context.Context, req *model.UploadSmilieRequest,
) (*model.UploadSmilieResponse, error) {
	if !smilieNamePattern.MatchString(req.Name) {
		return nil, errorx.New(errorx.BadRequest, "Invalid smilie name")
	}

	if req.Price < 0 {
		return nil, errorx.New(errorx.BadRequest, "Price cannot be negative")
	}

	payload := req.Image
	if i := strings.Index(payload, ","); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+1:]
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid image payload")
	}

	if len(image) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require an image")
	}

	dir := xcontext.Configs(ctx).File.SmilieDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create smilie directory: %v", err)
		return nil, errorx.Unknown
	}

	if err := os.WriteFile(filepath.Join(dir, req.Name+".webp"), image, 0o644); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store smilie image: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.smilies.Add(ctx, req.Name, req.Price); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add smilie to the catalogue: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadSmilieResponse{}, nil
}

func (d *adminDomain) DeleteSmilie(
	ctx context.Context, req *model.DeleteSmilieRequest,
) (*model.DeleteSmilieResponse, error) {
	if !smilieNamePattern.MatchString(req.Name) {
		return nil, errorx.New(errorx.BadRequest, "Invalid smilie name")
	}

	if err := d.smilies.Delete(ctx, req.Name); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete smilie from the catalogue: %v", err)
		return nil, errorx.Unknown
	}

	path := filepath.Join(xcontext.Configs(ctx).File.SmilieDir, req.Name+".webp")
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		xcontext.Logger(ctx).Warnf("Cannot remove smilie image: %v", err)
	}

	return &model.DeleteSmilieResponse{}, nil
}

func (d *adminDomain) UpdateSmiliePrices(
	ctx context.Context, req *model.UpdateSmiliePricesRequest,
) (*model.UpdateSmiliePricesResponse, error) {
	if err := d.smilies.UpdatePrices(ctx, req.Prices); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update smilie prices: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateSmiliePricesResponse{}, nil
}
