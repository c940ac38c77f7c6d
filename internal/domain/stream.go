package domain

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/whazzastream/backend/internal/model"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/crypto"
	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type StreamDomain interface {
	GetStreamInfo(ctx context.Context, req *model.GetStreamInfoRequest) (*model.GetStreamInfoResponse, error)
	Heartbeat(ctx context.Context, req *model.HeartbeatRequest) (*model.HeartbeatResponse, error)

	// ServeRtmpAuth and ServeHls are raw endpoints: the media server talks
	// plain status codes, and HLS responses are proxied bytes.
	ServeRtmpAuth(ctx context.Context)
	ServeHls(ctx context.Context)
}

type streamDomain struct {
	userRepo      repository.UserRepository
	settingRepo   repository.SettingRepository
	streamKeyRepo repository.StreamKeyRepository
	smilies       *SmilieCatalogue
}

func NewStreamDomain(
	userRepo repository.UserRepository,
	settingRepo repository.SettingRepository,
	streamKeyRepo repository.StreamKeyRepository,
	smilies *SmilieCatalogue,
) *streamDomain {
	return &streamDomain{
		userRepo:      userRepo,
		settingRepo:   settingRepo,
		streamKeyRepo: streamKeyRepo,
		smilies:       smilies,
	}
}

func (d *streamDomain) GetStreamInfo(
	ctx context.Context, req *model.GetStreamInfoRequest,
) (*model.GetStreamInfoResponse, error) {
	user, err := d.userRepo.GetByUsername(ctx, xcontext.RequestUsername(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	setting, err := d.settingRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get settings: %v", err)
		return nil, errorx.Unknown
	}

	token, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{
			Username: user.Username,
			IsAdmin:  user.IsAdmin,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	hlsToken, err := d.SignHlsToken(ctx, user.Username)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sign hls token: %v", err)
		return nil, errorx.Unknown
	}

	font := ""
	if user.Font != nil {
		font = *user.Font
	}

	tokens := 0
	for _, count := range user.EffectInventory {
		tokens += count
	}

	return &model.GetStreamInfoResponse{
		Username:      user.Username,
		Color:         user.Color,
		Font:          font,
		Points:        user.Points,
		EffectTokens:  tokens,
		IsAdmin:       user.IsAdmin,
		StreamSuffix:  setting.StreamSuffix,
		AccessToken:   token,
		BonusInterval: setting.StreamBonusInterval,
		BonusPoints:   setting.StreamBonusPoints,
		HlsToken:      hlsToken,
		Smilies:       d.smilies.GetAll(ctx),
	}, nil
}

// Heartbeat credits the watch bonus when at least the configured interval
// has passed since the previous credit. Early heartbeats succeed without
// granting anything, so a client may ping as often as it likes.
func (d *streamDomain) Heartbeat(
	ctx context.Context, req *model.HeartbeatRequest,
) (*model.HeartbeatResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err := d.userRepo.GetByUsername(ctx, xcontext.RequestUsername(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	setting, err := d.settingRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get settings: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	interval := time.Duration(setting.StreamBonusInterval) * time.Minute
	if user.LastStreamBonus != nil && now.Sub(*user.LastStreamBonus) < interval {
		return &model.HeartbeatResponse{
			Success: false,
			Message: "Too early",
			Points:  user.Points,
		}, nil
	}

	if err := d.userRepo.AddPoints(ctx, user.Username, setting.StreamBonusPoints); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit stream bonus: %v", err)
		return nil, errorx.Unknown
	}

	err = d.userRepo.UpdateByUsername(ctx, user.Username, map[string]any{
		"last_stream_bonus": now,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit stream bonus: %v", err)
		return nil, errorx.Unknown
	}

	user.Points += setting.StreamBonusPoints

	xcontext.WithCommitDBTransaction(ctx)

	return &model.HeartbeatResponse{
		Success: true,
		Message: fmt.Sprintf("+%d points", setting.StreamBonusPoints),
		Points:  user.Points,
	}, nil
}

// ServeRtmpAuth answers the media server's publish callback. The key arrives
// as the "name" form value; anything not in the stream key table is refused.
func (d *streamDomain) ServeRtmpAuth(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)
	req := xcontext.HTTPRequest(ctx)

	key := req.FormValue("name")
	if key == "" {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	if _, err := d.streamKeyRepo.GetByKey(ctx, key); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot check stream key: %v", err)
		}
		w.WriteHeader(http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// SignHlsToken issues a segment token of the form "expiry:signature", where
// the signature covers "username:expiry" under the rotating HLS secret.
func (d *streamDomain) SignHlsToken(ctx context.Context, username string) (string, error) {
	secret, err := d.hlsSecret(ctx)
	if err != nil {
		return "", err
	}

	expiry := time.Now().Add(xcontext.Configs(ctx).Stream.HlsTokenExpiration).Unix()
	payload := fmt.Sprintf("%s:%d", username, expiry)
	return fmt.Sprintf("%d:%s", expiry, crypto.HMAC(sha256.New, []byte(payload), []byte(secret))), nil
}

// VerifyHlsToken checks shape, expiry, then signature, in that order. A
// token signed under a rotated-away secret fails the signature check.
func (d *streamDomain) VerifyHlsToken(ctx context.Context, username, token string) bool {
	expiryPart, signature, ok := strings.Cut(token, ":")
	if !ok {
		return false
	}

	expiry, err := strconv.ParseInt(expiryPart, 10, 64)
	if err != nil || time.Now().Unix() > expiry {
		return false
	}

	secret, err := d.hlsSecret(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get hls secret: %v", err)
		return false
	}

	payload := fmt.Sprintf("%s:%d", username, expiry)
	return crypto.CompareHMAC(sha256.New, []byte(payload), []byte(secret), signature)
}

// hlsSecret reads the signing secret from settings, seeding a random one on
// first use so a fresh deployment never signs with an empty key.
func (d *streamDomain) hlsSecret(ctx context.Context) (string, error) {
	setting, err := d.settingRepo.Get(ctx)
	if err != nil {
		return "", err
	}

	if setting.HlsSecret == "" {
		secret, err := crypto.GenerateRandomString()
		if err != nil {
			return "", err
		}

		setting.HlsSecret = secret
		if err := d.settingRepo.Update(ctx, setting); err != nil {
			return "", err
		}
	}

	return setting.HlsSecret, nil
}

// ServeHls validates the token query parameters and proxies the request to
// the media server. Playlists and segments stay private to token holders.
func (d *streamDomain) ServeHls(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)
	req := xcontext.HTTPRequest(ctx)

	username := req.URL.Query().Get("username")
	token := req.URL.Query().Get("token")
	if username == "" || !d.VerifyHlsToken(ctx, username, token) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	base, err := url.Parse(xcontext.Configs(ctx).Stream.BaseURL)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid stream base url: %v", err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(base)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		xcontext.Logger(ctx).Warnf("Cannot proxy hls request: %v", err)
		w.WriteHeader(http.StatusBadGateway)
	}

	proxy.ServeHTTP(w, req)
}
