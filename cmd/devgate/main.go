package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "devgate",
		Short: "Run every project gate, report every failure",
		Long: `Devgate runs a list of project checks (vet, test, lint, ...) to
completion and reports everything that failed as one structured tree,
instead of stopping at the first broken step.

Steps are read from .devgate.yml in the working directory:

  env:
    - CGO_ENABLED=0
  steps:
    - name: vet
      run: go vet ./...
    - name: test
      run: go test ./...`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		ciCmd(),
		versionCmd(),
	)

	// %+v renders structured failure trees with per-step provenance.
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %+v\n", err)
		os.Exit(1)
	}
}

// success prints a per-step success marker.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// failure prints a per-step failure marker.
func failure(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
