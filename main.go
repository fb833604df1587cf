package main

import "livehl/cmd"

func main() {
	cmd.Main()
}
