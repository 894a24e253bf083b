package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

// ImageRenderer scales images for the kiosk page.
type ImageRenderer interface {
	Render(name string, width, height int) ([]byte, error)
	RenderIdle(width, height int) ([]byte, error)
}

type ImageController struct {
	renderer ImageRenderer
	viewport types.Viewport
}

func NewImageController(r ImageRenderer, viewport types.Viewport) *ImageController {
	return &ImageController{renderer: r, viewport: viewport}
}

// HandleImage returns a JPEG of one image fitted into w x h (the viewport by default).
// GET /api/self/v1/image?name=&w=&h=
func (ctrl *ImageController) HandleImage(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" || !tool.IsPlainFileName(name) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid parameter: name"))
		return
	}
	w, h := ctrl.size(c)
	data, err := ctrl.renderer.Render(name, w, h)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=60")
	c.Data(http.StatusOK, "image/jpeg", data)
}

// HandleIdleImage returns the screensaver image.
// GET /api/self/v1/idle-image
func (ctrl *ImageController) HandleIdleImage(c *gin.Context) {
	w, h := ctrl.size(c)
	data, err := ctrl.renderer.RenderIdle(w, h)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

func (ctrl *ImageController) size(c *gin.Context) (int, int) {
	w, err := strconv.Atoi(c.Query("w"))
	if err != nil || w <= 0 {
		w = ctrl.viewport.Width
	}
	h, err := strconv.Atoi(c.Query("h"))
	if err != nil || h <= 0 {
		h = ctrl.viewport.Height
	}
	return w, h
}

func (ctrl *ImageController) fail(c *gin.Context, err error) {
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Image not found"))
		return
	}
	tool.DefaultLogger.Warnf("Failed to render image: %v", err)
	c.JSON(http.StatusUnprocessableEntity, tool.FastReturnError("Failed to render image"))
}
