package api

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/photobooth-go/api/controllers"
	"github.com/moyoez/photobooth-go/api/middlewares"
	"github.com/moyoez/photobooth-go/api/notifyhub"
	"github.com/moyoez/photobooth-go/metrics"
	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

//go:embed web/index.html
var kioskPage []byte

// Deps are the collaborators served over HTTP.
type Deps struct {
	Booth    controllers.Booth
	Kiosk    controllers.Kiosk
	Images   controllers.ImageRenderer
	Hub      *notifyhub.Hub
	Viewport types.Viewport

	// ServeArchives exposes ZipRoot/<id>/<ArchiveFile> to everyone, not only loopback.
	ServeArchives bool
	ZipRoot       string
	ArchiveFile   string
}

// Server is the kiosk HTTP server: the kiosk page, its API and the optional archive download.
type Server struct {
	addr   string
	deps   Deps
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

// NewServer creates a server listening on addr.
func NewServer(addr string, deps Deps) *Server {
	return &Server{
		addr: addr,
		deps: deps,
	}
}

// Handler returns the route tree; used by Start and by tests.
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		s.engine = s.setupRoutes()
	}
	return s.engine
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	boothCtrl := controllers.NewBoothController(s.deps.Booth)
	kioskCtrl := controllers.NewKioskController(s.deps.Booth, s.deps.Kiosk)
	imageCtrl := controllers.NewImageController(s.deps.Images, s.deps.Viewport)

	engine.GET("/", middlewares.OnlyAllowLocal, func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", kioskPage)
	})
	engine.GET("/metrics", middlewares.OnlyAllowLocal, gin.WrapH(metrics.Handler()))

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.GET("/status", kioskCtrl.HandleStatus)            // session and current view
		self.POST("/advance", boothCtrl.HandleAdvance)         // start / share / done
		self.POST("/capture", boothCtrl.HandleCapture)         // trigger the camera
		self.POST("/overview", boothCtrl.HandleOverview)       // back to the grid
		self.POST("/select", boothCtrl.HandleSelect)           // show one image
		self.GET("/confirm-stop", kioskCtrl.HandleConfirmStop) // answer the finish prompt
		self.GET("/image", imageCtrl.HandleImage)              // scaled image JPEG
		self.GET("/idle-image", imageCtrl.HandleIdleImage)     // screensaver JPEG
		self.GET("/share-qr", kioskCtrl.HandleShareQR)         // QR code PNG
		if s.deps.Hub != nil {
			self.GET("/notify-ws", notifyhub.HandleNotifyWS(s.deps.Hub, controllers.ViewNotification(s.deps.Kiosk)))
		}
	}

	if s.deps.ServeArchives {
		archiveCtrl := controllers.NewArchiveController(s.deps.ZipRoot, s.deps.ArchiveFile)
		engine.GET("/archives/:id/:file", archiveCtrl.HandleDownload)
		tool.DefaultLogger.Infof("[Server] Serving archives from %s", s.deps.ZipRoot)
	}

	return engine
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	handler := s.Handler()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting kiosk server on http://%s", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
