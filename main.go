package main

import (
	"os"

	"github.com/casevault/courtcrawler/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
