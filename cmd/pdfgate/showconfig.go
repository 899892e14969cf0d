package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/pdfgate/internal/yamlutil"
)

// runConfig prints the effective configuration as YAML: defaults, the
// config file, PDFGATE_* variables and flags, in that order of priority.
// The output is a valid config file. API_KEY is never printed.
func runConfig(_ context.Context, args []string, env *Environment) error {
	f, fs, err := parseFlags("config", args)
	if errors.Is(err, flag.ErrHelp) {
		printConfigUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(f, fs, env)
	if err != nil {
		return err
	}

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(data)
	return err
}
