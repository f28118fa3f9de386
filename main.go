package main

import (
	"runtime/debug"

	"github.com/llehouerou/serenade/internal/cli"
)

func main() {
	cli.Run(appVersion())
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "dev"
	}
	return bi.Main.Version
}
