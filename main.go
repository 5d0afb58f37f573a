package main

import "github.com/kozaktomas/face-capture/cmd"

func main() {
	cmd.Execute()
}
