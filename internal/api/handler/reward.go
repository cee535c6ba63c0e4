package handler

import (
	"strconv"

	"vibeos/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupReward struct {
	container *do.Injector
}

func (gr *groupReward) ApplyTransaction(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload services.TransactionRequest
	if err := c.Bind(&payload); err != nil {
		return abortInvalid(c, err)
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceReward.ApplyTransaction(ctx, userID, payload)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

type giftPayload struct {
	ToUserID string                 `json:"to_user_id"`
	Coins    int64                  `json:"coins"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (gr *groupReward) Gift(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload giftPayload
	if err := c.Bind(&payload); err != nil {
		return abortInvalid(c, err)
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceReward.Gift(ctx, userID, payload.ToUserID, payload.Coins, payload.Metadata)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupReward) GetAvailableRewards(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	rewards, err := serviceReward.GetAvailableRewards(ctx, userID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, rewards, nil)
}

func (gr *groupReward) ClaimReward(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	rewardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return abortInvalid(c, err)
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceReward.ClaimReward(ctx, userID, rewardID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupReward) GetTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	page := 0
	limit := 20
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, _ = strconv.Atoi(limitStr)
		if limit <= 0 || limit > 100 {
			limit = 20
		}
	}
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 0 {
		page = 0
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	rows, err := serviceReward.GetUserTransactions(ctx, userID, page, limit)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, rows, nil)
}
