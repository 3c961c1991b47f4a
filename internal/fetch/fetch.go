//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package fetch downloads the published dataset with the Kaggle CLI.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pgEdge/pgedge-olist/internal/logging"
)

const (
	// DefaultDataset is the Kaggle dataset slug of the Olist data.
	DefaultDataset = "olistbr/brazilian-ecommerce"

	// DefaultCommand is the Kaggle CLI executable.
	DefaultCommand = "kaggle"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Fetcher downloads a dataset into a directory.
type Fetcher struct {
	Dataset string
	Dir     string
	Command string
	Run     Runner
}

// New creates a Fetcher for dataset into dir using the Kaggle CLI.
func New(dataset, dir string) *Fetcher {
	if dataset == "" {
		dataset = DefaultDataset
	}
	return &Fetcher{
		Dataset: dataset,
		Dir:     dir,
		Command: DefaultCommand,
		Run:     ExecRunner,
	}
}

// Args returns the CLI arguments for the download.
func (f *Fetcher) Args() []string {
	return []string{"datasets", "download", "-d", f.Dataset, "-p", f.Dir, "--unzip"}
}

// Fetch creates the target directory and runs the download. Kaggle
// credentials are read by the CLI itself.
func (f *Fetcher) Fetch(ctx context.Context) error {
	if f.Dir == "" {
		return fmt.Errorf("download directory is required")
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", f.Dir, err)
	}

	logging.Info().
		Str("dataset", f.Dataset).
		Str("dir", f.Dir).
		Msg("Downloading dataset")

	out, err := f.Run(ctx, f.Command, f.Args()...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s failed: %w: %s", f.Command, err, msg)
		}
		return fmt.Errorf("%s failed: %w", f.Command, err)
	}

	logging.Debug().Str("output", strings.TrimSpace(string(out))).Msg("Download finished")
	return nil
}
