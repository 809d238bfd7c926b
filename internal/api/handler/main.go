package handler

import (
	"net/http"

	"dripn/internal/interfaces"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
	// JWTSecret enables bearer authentication on /api/v1 when set.
	JWTSecret string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "💧")
	})
	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// rate limiting needs redis, without it earning routes are only gated by the services
	limiter, _ := do.Invoke[interfaces.Limiter](cfg.Container)

	routesAPIv1 := r.Group("/api/v1")
	{
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		if cfg.JWTSecret != "" {
			routesAPIv1.Use(Authn(cfg.JWTSecret))
		}
		routesAPIv1.GET("", Hello)

		routesAPIv1Account := routesAPIv1.Group("/account")
		{
			a := groupAccount{cfg.Container}
			routesAPIv1Account.GET("", a.Account)
			routesAPIv1Account.GET("/history", a.History)
			routesAPIv1Account.GET("/tier", a.Tier)
			routesAPIv1Account.PUT("/username", a.SetUsername)
			routesAPIv1Account.POST("/sync", a.Sync)
		}

		routesAPIv1Tasks := routesAPIv1.Group("/tasks")
		{
			t := groupTask{cfg.Container}
			routesAPIv1Tasks.GET("/video", t.VideoStatus)
			routesAPIv1Tasks.POST("/video", t.CompleteVideo, RateLimit(limiter, "video", redis_rate.PerMinute(RATE_VIDEO_PER_MINUTE)))
			routesAPIv1Tasks.POST("/login", t.RecordLogin)
		}

		routesAPIv1Badges := routesAPIv1.Group("/badges")
		{
			b := groupBadge{cfg.Container}
			routesAPIv1Badges.GET("", b.Badges)
			routesAPIv1Badges.POST("/:badge/unlock", b.Unlock)
			routesAPIv1Badges.POST("/:badge/claim", b.Claim)
		}

		s := groupShare{cfg.Container}
		routesAPIv1.GET("/shares", s.Status)
		routesAPIv1.POST("/shares", s.RecordShare, RateLimit(limiter, "share", redis_rate.PerMinute(RATE_SHARE_PER_MINUTE)))

		ref := groupReferral{cfg.Container}
		routesAPIv1.GET("/referral", ref.Referral)
		routesAPIv1.POST("/referral", ref.EnterCode)

		routesAPIv1Redemption := routesAPIv1.Group("/redemption")
		{
			rd := groupRedemption{cfg.Container}
			routesAPIv1Redemption.GET("", rd.Session)
			routesAPIv1Redemption.POST("", rd.Start)
			routesAPIv1Redemption.DELETE("", rd.Dismiss)
			routesAPIv1Redemption.POST("/amount", rd.SetAmount)
			routesAPIv1Redemption.POST("/address", rd.SubmitAddress)
			routesAPIv1Redemption.POST("/proceed", rd.Proceed)
			routesAPIv1Redemption.POST("/terms", rd.AcceptTerms)
			routesAPIv1Redemption.POST("/submit", rd.Submit, RateLimit(limiter, "redemption", redis_rate.PerMinute(RATE_REDEMPTION_PER_MINUTE)))
			routesAPIv1Redemption.POST("/back", rd.Back)
			routesAPIv1Redemption.POST("/restart", rd.Restart)
		}

		routesAPIv1Wallet := routesAPIv1.Group("/wallet")
		{
			w := groupWallet{cfg.Container}
			routesAPIv1Wallet.GET("", w.Address)
			routesAPIv1Wallet.PUT("", w.SetAddress)
			routesAPIv1Wallet.POST("/signin", w.SignIn)
			routesAPIv1Wallet.POST("/signin/:uuid/await", w.AwaitSignIn)
		}
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
