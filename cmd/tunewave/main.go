package main

import "github.com/tessro/tunewave/internal/cli"

func main() {
	cli.Execute()
}
