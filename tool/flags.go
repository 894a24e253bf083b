package tool

import (
	"flag"
	"os"

	"github.com/moyoez/photobooth-go/types"
)

const (
	windowedToken = "nfs"
	tunnelToken   = "ngrok"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	cfg, _ := ParseArgs(flag.CommandLine, os.Args[1:])
	return cfg
}

// ParseArgs registers the flags on fs and parses args. The bare tokens may appear
// anywhere in args, before or after flags.
func ParseArgs(fs *flag.FlagSet, args []string) (types.Config, error) {
	var cfg types.Config
	fs.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	fs.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	fs.StringVar(&cfg.UseImageRoot, "useImageRoot", "", "override image directory")
	fs.StringVar(&cfg.UseZipRoot, "useZipRoot", "", "override archive directory")
	fs.StringVar(&cfg.UseURLRoot, "useUrlRoot", "", "override share link root (\"auto\" derives it from the LAN address)")
	fs.StringVar(&cfg.UseListen, "useListen", "", "override kiosk server listen address")
	fs.BoolVar(&cfg.UseWindowed, "windowed", false, "do not request fullscreen on the kiosk page")
	fs.BoolVar(&cfg.UseTunnel, "useTunnel", false, "replace urlRoot with the public url of the local tunnel agent")
	fs.BoolVar(&cfg.SkipNotify, "skipNotify", false, "do not forward display events to notifySocket")
	fs.BoolVar(&cfg.SkipPing, "skipPing", false, "skip the share host reachability check")
	err := fs.Parse(ApplyArgTokens(&cfg, args))
	return cfg, err
}

// ApplyArgTokens honors the bare "nfs" (windowed) and "ngrok" (tunnel) arguments used
// by launcher scripts and returns args without them.
func ApplyArgTokens(cfg *types.Config, args []string) []string {
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case windowedToken:
			cfg.UseWindowed = true
		case tunnelToken:
			cfg.UseTunnel = true
		default:
			rest = append(rest, arg)
		}
	}
	return rest
}
