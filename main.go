package main

import "github.com/Taichi-iskw/yt-live/cmd"

func main() {
	cmd.Execute()
}
