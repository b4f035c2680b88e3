package main

import (
	"os"

	"github.com/nhle/jira-categorize/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
