package main

import "github.com/filxconnect/cli/internal/cmd"

func main() {
	cmd.Execute()
}
