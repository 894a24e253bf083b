package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/photobooth-go/display"
	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

// Kiosk is the display side of the kiosk.
type Kiosk interface {
	View() types.ViewModel
	QRCode() ([]byte, bool)
	Answer(promptID string, confirmed bool) error
}

type KioskController struct {
	booth Booth
	kiosk Kiosk
}

func NewKioskController(b Booth, k Kiosk) *KioskController {
	return &KioskController{booth: b, kiosk: k}
}

// HandleStatus returns the session and the current view.
// GET /api/self/v1/status
func (ctrl *KioskController) HandleStatus(c *gin.Context) {
	status, err := ctrl.booth.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"running":           true,
		"notify_ws_enabled": true,
		"session":           status,
		"view":              ctrl.kiosk.View(),
	})
}

// HandleConfirmStop answers the "finish session" prompt. promptId defaults to the
// prompt currently shown.
// GET /api/self/v1/confirm-stop?promptId=&confirmed=
func (ctrl *KioskController) HandleConfirmStop(c *gin.Context) {
	promptID := strings.TrimSpace(c.Query("promptId"))
	confirmedRaw := strings.TrimSpace(c.Query("confirmed"))
	if confirmedRaw == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: confirmed"))
		return
	}
	confirmed, err := strconv.ParseBool(confirmedRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid parameter: confirmed"))
		return
	}

	if err := ctrl.kiosk.Answer(promptID, confirmed); err != nil {
		if errors.Is(err, display.ErrNoPrompt) {
			c.JSON(http.StatusNotFound, tool.FastReturnError("Prompt not found or expired"))
			return
		}
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandleShareQR returns the QR code currently on screen.
// GET /api/self/v1/share-qr
func (ctrl *KioskController) HandleShareQR(c *gin.Context) {
	png, ok := ctrl.kiosk.QRCode()
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("No share link is shown"))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// ViewNotification wraps the current view for a newly connected page.
func ViewNotification(k Kiosk) func() *types.Notification {
	return func() *types.Notification {
		return &types.Notification{
			Type: types.NotifyTypeView,
			Data: map[string]any{"view": k.View()},
		}
	}
}
