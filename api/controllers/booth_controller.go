package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/photobooth-go/booth"
	"github.com/moyoez/photobooth-go/capture"
	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

// Booth is the session side of the kiosk.
type Booth interface {
	Advance(ctx context.Context) (types.SessionState, error)
	Capture(ctx context.Context) (string, error)
	SelectImage(ctx context.Context, name string) error
	ShowOverview(ctx context.Context) error
	Status(ctx context.Context) (booth.Status, error)
}

type BoothController struct {
	booth Booth
}

func NewBoothController(b Booth) *BoothController {
	return &BoothController{booth: b}
}

// HandleAdvance performs the single operator action. Leaving Sharing waits for the
// confirmation prompt to be answered.
// POST /api/self/v1/advance
func (ctrl *BoothController) HandleAdvance(c *gin.Context) {
	state, err := ctrl.booth.Advance(c.Request.Context())
	if err != nil {
		tool.DefaultLogger.Errorf("Advance failed: %v", err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnErrorWithData(err.Error(), map[string]any{"state": state.String()}))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"state": state.String()}))
}

// HandleCapture presses the shutter.
// POST /api/self/v1/capture
func (ctrl *BoothController) HandleCapture(c *gin.Context) {
	name, err := ctrl.booth.Capture(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"fileName": name}))
	case errors.Is(err, capture.ErrBusy):
		c.JSON(http.StatusTooManyRequests, tool.FastReturnError(err.Error()))
	case errors.Is(err, booth.ErrNotCapturing), errors.Is(err, booth.ErrNoCamera):
		c.JSON(http.StatusConflict, tool.FastReturnError(err.Error()))
	default:
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Capture failed: "+err.Error()))
	}
}

// HandleSelect shows one image of the session.
// POST /api/self/v1/select?name=
func (ctrl *BoothController) HandleSelect(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: name"))
		return
	}
	if err := ctrl.booth.SelectImage(c.Request.Context(), name); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, booth.ErrNotCapturing) {
			status = http.StatusConflict
		}
		c.JSON(status, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandleOverview returns to the grid.
// POST /api/self/v1/overview
func (ctrl *BoothController) HandleOverview(c *gin.Context) {
	if err := ctrl.booth.ShowOverview(c.Request.Context()); err != nil {
		c.JSON(http.StatusConflict, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
