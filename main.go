package main

import "video-cutter/cmd"

func main() {
	cmd.Execute()
}
