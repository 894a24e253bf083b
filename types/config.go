package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	URLRoot        string          `yaml:"urlRoot"`        // base of every share link, "auto" derives it from the LAN address
	ImageRoot      string          `yaml:"imageRoot"`      // flat directory the camera writes into
	ZipRoot        string          `yaml:"zipRoot"`        // archives end up in zipRoot/<session>/<archiveName>.zip
	ArchiveName    string          `yaml:"archiveName"`    // without the .zip suffix
	PollIntervalMs int             `yaml:"pollIntervalMs"` // watcher cadence while capturing
	TempMarker     string          `yaml:"tempMarker"`     // entries containing this are still being written
	Listen         string          `yaml:"listen"`         // kiosk server address
	Viewport       Viewport        `yaml:"viewport"`
	QRSize         int             `yaml:"qrSize"`
	IdleImage      string          `yaml:"idleImage,omitempty"`
	Capture        CaptureConfig   `yaml:"capture"`
	TunnelAPI      string          `yaml:"tunnelApi"`
	NotifySocket   string          `yaml:"notifySocket,omitempty"`
	ServeArchives  bool            `yaml:"serveArchives"`
	S3             S3PublishConfig `yaml:"s3,omitempty"`
}

// Viewport is the pixel area images are fitted into.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// CaptureConfig configures the external camera utility.
type CaptureConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Binary        string `yaml:"binary"`
	MinIntervalMs int    `yaml:"minIntervalMs"` // shutter presses closer than this are dropped
}

// S3PublishConfig uploads finished archives to S3-compatible storage when Bucket is set.
type S3PublishConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log           string
	UseConfigPath string
	UseImageRoot  string
	UseZipRoot    string
	UseURLRoot    string
	UseListen     string
	UseWindowed   bool // also set by a bare "nfs" argument
	UseTunnel     bool // "ngrok" token, replace urlRoot with the tunnel's public url
	SkipNotify    bool // if true, do not forward display events to notifySocket
	SkipPing      bool // if true, skip the share host reachability check
}
