package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/model"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/testutil"
	"github.com/whazzastream/backend/pkg/xcontext"
)

func Test_authDomain_Login(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	settingRepo := repository.NewSettingRepository()
	d := NewAuthDomain(userRepo, settingRepo)

	resp, err := d.Login(ctx, &model.LoginRequest{
		Username: "alice",
		Password: testutil.Password,
	})
	require.NoError(t, err)
	require.Equal(t, "alice", resp.Username)
	require.False(t, resp.IsAdmin)
	require.NotEmpty(t, resp.AccessToken)

	// The first login of the day grants the bonus.
	require.Equal(t, entity.DefaultDailyBonus, resp.DailyBonus)
	require.Equal(t, 1000+entity.DefaultDailyBonus, resp.Points)

	// The token round-trips through the engine.
	var accessToken model.AccessToken
	err = xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &accessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", accessToken.Username)
}

func Test_authDomain_Login_WrongCredentials(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	d := NewAuthDomain(repository.NewUserRepository(), repository.NewSettingRepository())

	_, err := d.Login(ctx, &model.LoginRequest{Username: "alice", Password: "wrong"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)

	// An unknown username gets the same answer as a wrong password.
	_, err = d.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "wrong"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}

func Test_authDomain_Login_InactiveAccount(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	d := NewAuthDomain(userRepo, repository.NewSettingRepository())

	err := userRepo.UpdateByUsername(ctx, "alice", map[string]any{"is_active": false})
	require.NoError(t, err)

	_, err = d.Login(ctx, &model.LoginRequest{Username: "alice", Password: testutil.Password})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_authDomain_Login_DailyBonusOncePerDay(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	d := NewAuthDomain(userRepo, repository.NewSettingRepository())

	resp, err := d.Login(ctx, &model.LoginRequest{Username: "bob", Password: testutil.Password})
	require.NoError(t, err)
	require.Equal(t, entity.DefaultDailyBonus, resp.DailyBonus)

	// The second login on the same day grants nothing.
	resp, err = d.Login(ctx, &model.LoginRequest{Username: "bob", Password: testutil.Password})
	require.NoError(t, err)
	require.Equal(t, 0, resp.DailyBonus)
	require.Equal(t, entity.DefaultDailyBonus, resp.Points)

	// A stamp from yesterday makes the bonus available again.
	yesterday := time.Now().AddDate(0, 0, -1)
	err = userRepo.UpdateByUsername(ctx, "bob", map[string]any{"last_daily_bonus": yesterday})
	require.NoError(t, err)

	resp, err = d.Login(ctx, &model.LoginRequest{Username: "bob", Password: testutil.Password})
	require.NoError(t, err)
	require.Equal(t, entity.DefaultDailyBonus, resp.DailyBonus)
	require.Equal(t, 2*entity.DefaultDailyBonus, resp.Points)
}
