/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across binaries and service-agnostic.
	Each binary calls ParseFlags once at the top of main. Service dependent
	flags are defined in their respective cmd package before ParseFlags runs.
*/

package flag

import (
	"flag"
)

const (
	APIServer  = "api_server"
	FeedWarmer = "feed_warmer"
)

var (
	IsDevelopment bool
	ServiceName   string
	AppConfigPath string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "'api_server' or 'feed_warmer'")
	flag.StringVar(&AppConfigPath, "app_config_path", "cmd/server/config.yaml", "path to feed cache app config")
}

// ParseFlags parses command line flags. It must not be called from init,
// otherwise go test flags are rejected.
func ParseFlags() {
	if !flag.Parsed() {
		flag.Parse()
	}
}
