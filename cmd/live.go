package cmd

import (
	"os"

	"github.com/Taichi-iskw/yt-live/cmd/live"
)

func init() {
	rootCmd.AddCommand(live.NewLiveCommand(live.NewServiceFactory(os.Stderr)))
}
