package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/photobooth-go/tool"
)

type ArchiveController struct {
	zipRoot  string
	fileName string
}

func NewArchiveController(zipRoot, fileName string) *ArchiveController {
	return &ArchiveController{zipRoot: zipRoot, fileName: fileName}
}

// HandleDownload serves a finished session archive to guests.
// GET /archives/:id/:file
func (ctrl *ArchiveController) HandleDownload(c *gin.Context) {
	id := c.Param("id")
	file := c.Param("file")
	if !tool.IsPlainFileName(id) || file != ctrl.fileName {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Archive not found"))
		return
	}
	path := filepath.Join(ctrl.zipRoot, id, file)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Archive not found"))
		return
	}
	tool.DefaultLogger.Infof("[Archive] %s downloads %s", c.ClientIP(), id)
	c.FileAttachment(path, file)
}
