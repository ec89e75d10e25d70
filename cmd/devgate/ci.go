package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	xgxstash "github.com/xgx-io/xgx-stash"
)

const defaultConfigPath = ".devgate.yml"

// gateConfig is the root of .devgate.yml.
type gateConfig struct {
	Env   []string   `yaml:"env"`
	Steps []gateStep `yaml:"steps"`
}

type gateStep struct {
	Name         string `yaml:"name"`
	Run          string `yaml:"run"`
	Timeout      string `yaml:"timeout"`
	AllowFailure bool   `yaml:"allow_failure"`

	// parsed from Timeout during validation; zero means the global flag.
	timeout time.Duration
}

func ciCmd() *cobra.Command {
	var (
		configPath string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ci [step ...]",
		Short: "Run the configured steps to completion",
		Long: `Run every configured step, even when earlier steps fail, and report
all failures at once. Step names given as arguments select a subset
("all" or no arguments runs everything). Without a ` + defaultConfigPath + `
a built-in gate of fmt, vet, test and build is used.

Examples:
  devgate ci
  devgate ci vet test
  devgate ci -c ci/devgate.yml --timeout 5m`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCI(cmd.Context(), configPath, timeout, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to the step configuration")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Per-step timeout for steps without their own")

	return cmd
}

func runCI(ctx context.Context, configPath string, timeout time.Duration, names []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	steps, err := pickSteps(cfg.Steps, names)
	if err != nil {
		return err
	}

	failed := 0
	errs := xgxstash.New(func() string {
		return fmt.Sprintf("%d of %d steps failed", failed, len(steps))
	})

	for _, step := range steps {
		start := time.Now()
		err := runStep(ctx, step, cfg.Env, timeout)
		elapsed := time.Since(start).Round(time.Millisecond)
		switch {
		case err == nil:
			success("%s (%s)", step.Name, elapsed)
		case step.AllowFailure:
			failure("%s (%s, allowed)", step.Name, elapsed)
		default:
			failed++
			failure("%s (%s)", step.Name, elapsed)
			xgxstash.OrStash(errs, xgxstash.Wrapf(err, "run %s", step.Name))
		}
	}

	return errs.Err()
}

// pickSteps resolves the requested step names against the configured steps,
// keeping configuration order. No names, or the name "all", selects every
// step. Unknown names are reported together, not one at a time.
func pickSteps(configured []gateStep, names []string) ([]gateStep, error) {
	if len(names) == 0 {
		return configured, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "all" {
			return configured, nil
		}
		want[n] = true
	}

	known := make(map[string]bool, len(configured))
	var out []gateStep
	for _, s := range configured {
		known[s.Name] = true
		if want[s.Name] {
			out = append(out, s)
		}
	}

	errs := xgxstash.New(func() string { return "unknown steps requested" })
	for _, n := range names {
		if !known[n] {
			errs.Push(fmt.Errorf("no step named %q", n))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func runStep(ctx context.Context, step gateStep, env []string, fallback time.Duration) error {
	timeout := fallback
	if step.timeout > 0 {
		timeout = step.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", step.Run)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), env...)

	return cmd.Run()
}

// defaultGate is the built-in step list used when no configuration file
// exists at the default path.
func defaultGate() *gateConfig {
	return &gateConfig{
		Steps: []gateStep{
			{Name: "fmt", Run: `test -z "$(gofmt -l .)"`},
			{Name: "vet", Run: "go vet ./..."},
			{Name: "test", Run: "go test ./..."},
			{Name: "build", Run: "go build ./..."},
		},
	}
}

// loadConfig reads and validates the step configuration. Validation checks
// every step and every env entry before rejecting the file, so one report
// lists everything that needs fixing.
func loadConfig(path string) (*gateConfig, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
			return defaultGate(), nil
		}
		return nil, xgxstash.Wrapf(err, "load %s", path)
	}

	var cfg gateConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, xgxstash.Wrapf(err, "parse %s", path)
	}

	errs := xgxstash.New(func() string {
		return fmt.Sprintf("invalid config %s", path)
	})

	if len(cfg.Steps) == 0 {
		errs.Push(fmt.Errorf("no steps configured"))
	}
	seen := make(map[string]bool, len(cfg.Steps))
	steps, _ := xgxstash.TryMapOrStash(cfg.Steps, func(s gateStep) (gateStep, error) {
		switch {
		case s.Name == "":
			return s, fmt.Errorf("step %q has no name", s.Run)
		case s.Run == "":
			return s, fmt.Errorf("step %q has no run command", s.Name)
		case seen[s.Name]:
			return s, fmt.Errorf("step %q is declared twice", s.Name)
		}
		seen[s.Name] = true
		if s.Timeout != "" {
			d, err := time.ParseDuration(s.Timeout)
			if err != nil {
				return s, fmt.Errorf("step %q has a bad timeout %q", s.Name, s.Timeout)
			}
			s.timeout = d
		}
		return s, nil
	}, errs)
	for i, kv := range cfg.Env {
		if key, _, ok := strings.Cut(kv, "="); !ok || key == "" {
			errs.Push(fmt.Errorf("env[%d]: %q is not KEY=VALUE", i, kv))
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	cfg.Steps = steps
	return &cfg, nil
}
