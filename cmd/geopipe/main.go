package main

import "github.com/askiada/geopipe/internal/cli"

func main() {
	cli.Execute()
}
