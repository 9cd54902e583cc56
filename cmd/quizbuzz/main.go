package main

import (
	"github.com/quizbuzz/quizbuzz-go/internal/cli"
)

func main() {
	cli.Execute()
}
