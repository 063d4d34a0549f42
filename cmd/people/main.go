// Command people is a command-line contact book backed by a SQLite file.
package main

import (
	"context"
	"os"

	"github.com/roach88/people/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
