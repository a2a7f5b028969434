package main

import "github.com/mj1618/device-cli/cmd"

func main() {
	cmd.Execute()
}
