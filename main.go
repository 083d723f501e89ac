package main

import "github.com/keywordpulse/keywordpulse/cmd"

func main() {
	cmd.Execute()
}
