package handler

import (
	"vibeos/internal/models"
	"vibeos/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupEngagement struct {
	container *do.Injector
}

// Track accepts one engagement event. The response is a bare ack even
// when the write behind it failed; only missing identity and rate
// limiting surface to the client.
func (gr *groupEngagement) Track(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var event models.EngagementEvent
	if err := c.Bind(&event); err != nil {
		return abortInvalid(c, err)
	}

	serviceInterest, err := do.Invoke[*services.ServiceInterest](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceInterest.TrackEngagement(ctx, userID, event); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, "tracked", nil)
}

type interactionPayload struct {
	Emotion models.EmotionCategory `json:"emotion"`
	Type    models.InteractionType `json:"type"`
}

func (gr *groupEngagement) RecordInteraction(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload interactionPayload
	if err := c.Bind(&payload); err != nil {
		return abortInvalid(c, err)
	}

	serviceInterest, err := do.Invoke[*services.ServiceInterest](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceInterest.RecordInteraction(ctx, userID, payload.Emotion, payload.Type); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, "recorded", nil)
}

func (gr *groupEngagement) GetInterestProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := ResolveUserID(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceInterest, err := do.Invoke[*services.ServiceInterest](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	profile, err := serviceInterest.GetInterestProfile(ctx, userID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, profile, nil)
}
