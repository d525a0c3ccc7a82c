// Package main provides podcastctl, a CLI for one-shot podcast runs that
// bypass the Redis queue.
//
// Usage:
//
//	podcastctl create --url https://namu.wiki/w/...
//	podcastctl create --title "Title" --file article.txt
//	podcastctl scrape --url https://namu.wiki/w/...
//	podcastctl script --title "Title" --file article.txt
//
// Configuration is read from the environment (and .env / CONFIG_FILE) the
// same way as the API server.
package main

import (
	"fmt"
	"os"

	"github.com/bobarin/podcaster/cmd/podcastctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
