package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moyoez/photobooth-go/api"
	"github.com/moyoez/photobooth-go/api/notifyhub"
	"github.com/moyoez/photobooth-go/archive"
	"github.com/moyoez/photobooth-go/booth"
	"github.com/moyoez/photobooth-go/capture"
	"github.com/moyoez/photobooth-go/display"
	"github.com/moyoez/photobooth-go/notify"
	"github.com/moyoez/photobooth-go/sharelink"
	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/tunnel"
	"github.com/moyoez/photobooth-go/watcher"
)

func main() {
	cfg := tool.SetFlags()

	// initialize logger
	tool.InitLogger()
	tool.SetLogMode(cfg.Log)

	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyFlagOverrides(&appCfg, cfg)

	// missing directories are created, nothing else is validated
	for _, dir := range []string{appCfg.ImageRoot, appCfg.ZipRoot} {
		if err := tool.EnsureDir(dir); err != nil {
			tool.DefaultLogger.Fatalf("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	urlRoot := appCfg.URLRoot
	switch {
	case cfg.UseTunnel:
		urlRoot, err = tunnel.Discover(ctx, nil, appCfg.TunnelAPI)
		if err != nil {
			tool.DefaultLogger.Fatalf("Tunnel discovery failed: %v", err)
		}
	case urlRoot == tool.URLRootAuto:
		urlRoot, err = tool.DefaultURLRoot(appCfg.Listen)
		if err != nil {
			tool.DefaultLogger.Fatalf("%v", err)
		}
	}
	tool.DefaultLogger.Infof("Share links point to %s", urlRoot)
	if !cfg.SkipPing {
		go func() {
			if err := tool.CheckHostReachable(urlRoot, 3*time.Second); err != nil {
				tool.DefaultLogger.Warnf("Share host check: %v", err)
			}
		}()
	}

	links, err := sharelink.New(urlRoot, appCfg.ArchiveName, appCfg.QRSize)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}

	var publisher archive.Publisher
	if appCfg.S3.Bucket != "" {
		s3Publisher, err := archive.NewS3Publisher(ctx, appCfg.S3)
		if err != nil {
			tool.DefaultLogger.Fatalf("Failed to set up S3 publisher: %v", err)
		}
		publisher = s3Publisher
		tool.DefaultLogger.Infof("Publishing archives to s3://%s/%s", appCfg.S3.Bucket, appCfg.S3.Prefix)
	}
	packager := archive.NewPackager(appCfg.ImageRoot, appCfg.ZipRoot, appCfg.ArchiveName, publisher)

	hub := notifyhub.New()
	kiosk := display.NewKiosk(appCfg.Viewport, !cfg.UseWindowed, hub)
	if appCfg.NotifySocket != "" {
		forwarder := notify.NewForwarder(appCfg.NotifySocket, 0)
		kiosk.AddBroadcaster(forwarder)
		go forwarder.Run(ctx)
	}

	var camera booth.Camera
	if appCfg.Capture.Enabled {
		camera = capture.NewGPhoto(appCfg.Capture.Binary, appCfg.ImageRoot,
			time.Duration(appCfg.Capture.MinIntervalMs)*time.Millisecond)
	}

	loop := booth.NewLoop(time.Duration(appCfg.PollIntervalMs) * time.Millisecond)
	ctrl := booth.NewController(booth.Deps{
		Surface:        kiosk,
		Prompter:       kiosk,
		Watcher:        watcher.New(watcher.DirLister{Root: appCfg.ImageRoot}, appCfg.TempMarker),
		Archiver:       packager,
		Links:          links,
		Ticker:         loop,
		CaptureEnabled: camera != nil,
	})
	runner := booth.NewRunner(ctrl, loop, camera)
	go loop.Run(ctx)

	server := api.NewServer(appCfg.Listen, api.Deps{
		Booth:         runner,
		Kiosk:         kiosk,
		Images:        display.NewThumbnailer(appCfg.ImageRoot, appCfg.IdleImage),
		Hub:           hub,
		Viewport:      appCfg.Viewport,
		ServeArchives: appCfg.ServeArchives,
		ZipRoot:       appCfg.ZipRoot,
		ArchiveFile:   packager.FileName(),
	})
	go func() {
		if err := server.Start(); err != nil {
			tool.DefaultLogger.Fatalf("Kiosk server startup failed: %v", err)
		}
	}()

	<-ctx.Done()
	tool.DefaultLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		tool.DefaultLogger.Errorf("Server shutdown: %v", err)
	}
}
