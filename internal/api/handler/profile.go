package handler

import (
	"strconv"

	"vibeos/internal/datastore/redis_store"
	"vibeos/internal/models"
	"vibeos/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupProfile struct {
	container *do.Injector
}

func (gr *groupProfile) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceProfile, err := do.Invoke[*services.ServiceProfile](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	view, err := serviceProfile.Me(ctx, userID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, view, nil)
}

type postVibePayload struct {
	Emotion    models.EmotionCategory `json:"emotion"`
	TextLength int                    `json:"textLength"`
}

func (gr *groupProfile) PostVibe(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload postVibePayload
	if err := c.Bind(&payload); err != nil {
		return abortInvalid(c, err)
	}

	serviceProfile, err := do.Invoke[*services.ServiceProfile](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceProfile.RecordVibePost(ctx, userID, payload.Emotion, payload.TextLength)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupProfile) GetLeaderboard(c echo.Context) error {
	ctx := c.Request().Context()

	name := redis_store.LEADERBOARD_XP
	if c.QueryParam("board") == "weekly" {
		name = redis_store.LEADERBOARD_XP_WEEKLY
	}

	limit := services.LEADERBOARD_DEFAULT_LIMIT
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, _ = strconv.Atoi(limitStr)
		if limit <= 0 || limit > 100 {
			limit = services.LEADERBOARD_DEFAULT_LIMIT
		}
	}

	serviceProfile, err := do.Invoke[*services.ServiceProfile](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	entries, err := serviceProfile.GetLeaderboard(ctx, name, limit)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, entries, nil)
}
