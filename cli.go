//go:build cli
// +build cli

package main

import (
	"poultry.GO/cmd"
	"poultry.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
