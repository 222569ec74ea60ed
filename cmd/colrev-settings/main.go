package main

import (
	"os"

	"colrev-settings/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd()
	os.Exit(cli.ExitCode(cmd.Execute()))
}
