package main

import (
	"log"
	"os"

	"github.com/watchlens/scraper/cmd/watchlens/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
