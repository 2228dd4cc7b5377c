package main

import "github.com/sircorndog/scrobble-analysis/cmd"

func main() {
	cmd.Execute()
}
