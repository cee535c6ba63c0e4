package handler

import (
	"net/http"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
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
		return c.String(http.StatusOK, "✨")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-User-ID"},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn()) // Authn will NOT terminate unidentified requests.
		routesAPIv1.GET("", Hello)

		p := groupProfile{cfg.Container}
		routesAPIv1.GET("/user/me", p.Me)
		routesAPIv1.POST("/vibes", p.PostVibe)
		routesAPIv1.GET("/leaderboard", p.GetLeaderboard)

		e := groupEngagement{cfg.Container}
		routesAPIv1.POST("/engagement/track", e.Track)
		routesAPIv1.POST("/engagement/interaction", e.RecordInteraction)
		routesAPIv1.GET("/engagement/profile", e.GetInterestProfile)

		rw := groupReward{cfg.Container}
		routesAPIv1.POST("/rewards/transactions", rw.ApplyTransaction)
		routesAPIv1.GET("/rewards/transactions", rw.GetTransactions)
		routesAPIv1.POST("/rewards/gift", rw.Gift)
		routesAPIv1.GET("/rewards", rw.GetAvailableRewards)
		routesAPIv1.POST("/rewards/:id/claim", rw.ClaimReward)
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
