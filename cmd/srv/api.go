package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
	"github.com/whazzastream/backend/internal/middleware"
	"github.com/whazzastream/backend/pkg/router"
)

func (s *srv) startApi(ct *cli.Context) error {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()
	server.loadRepos()
	server.loadDomains()
	server.seedAdmin()
	server.loadRouter()

	defer s.hub.Close()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port %s", s.configs.ApiServer.Port)
	if s.configs.ApiServer.Cert != "" {
		return httpServer.ListenAndServeTLS(s.configs.ApiServer.Cert, s.configs.ApiServer.Key)
	}

	return httpServer.ListenAndServe()
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.Static("/static/", "./web/static")
	s.router.AddCloser(middleware.Logger())
	s.router.Before(middleware.AllowCors())

	// Auth API
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSaveSession())
	{
		router.POST(authRouter, "/login", s.authDomain.Login)
		router.POST(authRouter, "/logout", s.authDomain.Logout)
	}

	// These following APIs need an authenticated user.
	authVerifier := middleware.NewAuthVerifier()
	userRouter := s.router.Branch()
	userRouter.Before(authVerifier.Middleware())
	{
		// Shop API
		router.GET(userRouter, "/getCatalog", s.shopDomain.GetCatalog)
		router.GET(userRouter, "/getEffectInventory", s.shopDomain.GetEffectInventory)
		router.GET(userRouter, "/getUnlockedSmilies", s.shopDomain.GetUnlockedSmilies)
		router.POST(userRouter, "/buy", s.shopDomain.Buy)

		// Stream API
		router.GET(userRouter, "/getStreamInfo", s.streamDomain.GetStreamInfo)
		router.POST(userRouter, "/heartbeat", s.streamDomain.Heartbeat)
	}

	// Admin API
	adminRouter := s.router.Branch()
	adminRouter.Before(authVerifier.Middleware())
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo))
	{
		router.POST(adminRouter, "/admin/createUser", s.adminDomain.CreateUser)
		router.POST(adminRouter, "/admin/deleteUser", s.adminDomain.DeleteUser)
		router.POST(adminRouter, "/admin/changePassword", s.adminDomain.ChangePassword)
		router.POST(adminRouter, "/admin/toggleUser", s.adminDomain.ToggleUser)
		router.POST(adminRouter, "/admin/updateUser", s.adminDomain.UpdateUser)
		router.GET(adminRouter, "/admin/getUserInfo", s.adminDomain.GetUserInfo)
		router.GET(adminRouter, "/admin/listUsers", s.adminDomain.ListUsers)

		router.POST(adminRouter, "/admin/clearChat", s.adminDomain.ClearChat)

		router.POST(adminRouter, "/admin/addStreamKey", s.adminDomain.AddStreamKey)
		router.POST(adminRouter, "/admin/deleteStreamKey", s.adminDomain.DeleteStreamKey)
		router.GET(adminRouter, "/admin/listStreamKeys", s.adminDomain.ListStreamKeys)

		router.POST(adminRouter, "/admin/updateRewards", s.adminDomain.UpdateRewards)
		router.POST(adminRouter, "/admin/updateStreamSuffix", s.adminDomain.UpdateStreamSuffix)
		router.POST(adminRouter, "/admin/updateHlsSecret", s.adminDomain.UpdateHlsSecret)

		router.POST(adminRouter, "/admin/updateDiscordWebhook", s.adminDomain.UpdateDiscordWebhook)
		router.POST(adminRouter, "/admin/sendDiscord", s.adminDomain.SendDiscord)

		router.POST(adminRouter, "/admin/uploadSmilie", s.adminDomain.UploadSmilie)
		router.POST(adminRouter, "/admin/deleteSmilie", s.adminDomain.DeleteSmilie)
		router.POST(adminRouter, "/admin/updateSmiliePrices", s.adminDomain.UpdateSmiliePrices)
	}

	// Websocket and media endpoints bypass the JSON envelope.
	router.Raw(s.router, "/ws", s.chatDomain.ServeChannel)
	router.Raw(s.router, "/rtmp/auth", s.streamDomain.ServeRtmpAuth)
	router.Raw(s.router, "/hls/", s.streamDomain.ServeHls)
}
