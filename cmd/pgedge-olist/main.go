// Package main is the entry point for pgedge-olist.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-olist/internal/cli"

	// Register exporters
	_ "github.com/pgEdge/pgedge-olist/internal/export/postgres"
	_ "github.com/pgEdge/pgedge-olist/internal/export/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
