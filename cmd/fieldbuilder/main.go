package main

import "github.com/goliatone/go-fieldbuilder/cmd/fieldbuilder/cmd"

func main() {
	cmd.Execute()
}
