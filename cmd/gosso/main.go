package main

import "github.com/MrEthical07/goSSO/cmd/gosso/cmd"

func main() {
	cmd.Execute()
}
