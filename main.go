package main

import "github.com/danbovey/blink-camera-system/cmd"

func main() {
	cmd.Execute()
}
