package domain

import (
	"context"
	"errors"
	"time"

	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/model"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/crypto"
	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Logout(ctx context.Context, req *model.LogoutRequest) (*model.LogoutResponse, error)
}

type authDomain struct {
	userRepo    repository.UserRepository
	settingRepo repository.SettingRepository
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	settingRepo repository.SettingRepository,
) *authDomain {
	return &authDomain{
		userRepo:    userRepo,
		settingRepo: settingRepo,
	}
}

func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, errorx.New(errorx.BadRequest, "Require username and password")
	}

	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid username or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !crypto.VerifyPassword(user.Password, req.Password) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid username or password")
	}

	if !user.IsActive {
		return nil, errorx.New(errorx.PermissionDenied, "Account is deactivated")
	}

	bonus, err := d.grantDailyBonus(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot grant daily bonus: %v", err)
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

	return &model.LoginResponse{
		AccessToken: token,
		Username:    user.Username,
		IsAdmin:     user.IsAdmin,
		Color:       user.Color,
		DailyBonus:  bonus,
		Points:      user.Points,
	}, nil
}

// grantDailyBonus credits the login bonus at most once per calendar day and
// returns the number of points granted.
func (d *authDomain) grantDailyBonus(ctx context.Context, user *entity.User) (int, error) {
	now := time.Now()
	if user.LastDailyBonus != nil && sameDay(*user.LastDailyBonus, now) {
		return 0, nil
	}

	setting, err := d.settingRepo.Get(ctx)
	if err != nil {
		return 0, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.AddPoints(ctx, user.Username, setting.DailyBonus); err != nil {
		return 0, err
	}

	err = d.userRepo.UpdateByUsername(ctx, user.Username, map[string]any{
		"last_daily_bonus": now,
	})
	if err != nil {
		return 0, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	user.Points += setting.DailyBonus
	user.LastDailyBonus = &now

	return setting.DailyBonus, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (d *authDomain) Logout(ctx context.Context, req *model.LogoutRequest) (*model.LogoutResponse, error) {
	session, err := xcontext.SessionStore(ctx).Get(xcontext.HTTPRequest(ctx))
	if err == nil {
		session.Options.MaxAge = -1
		if err := xcontext.SessionStore(ctx).Save(
			xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx), session,
		); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot clear session: %v", err)
		}
	}

	return &model.LogoutResponse{}, nil
}
