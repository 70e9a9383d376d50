package main

import "github.com/kailas-cloud/convsearch/internal/cli"

func main() {
	cli.Execute()
}
