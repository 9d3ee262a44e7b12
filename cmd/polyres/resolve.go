package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"polyres/internal/driver"
	"polyres/internal/trace"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [paths...]",
	Short: "Print the resolved type of every poly expression",
	Long: `resolve loads every fixture under the given files or directories
(default: [resolve].paths from polyres.toml, else the working directory)
and prints the type assigned to each poly expression.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd, args, columnType)
	},
}

var contextCmd = &cobra.Command{
	Use:   "context [paths...]",
	Short: "Print the expression context of every poly expression",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd, args, columnContext)
	},
}

func init() {
	for _, c := range []*cobra.Command{resolveCmd, contextCmd} {
		c.Flags().String("format", "text", "output format (text|json)")
		c.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	}
}

func runResolve(cmd *cobra.Command, args []string, col column) error {
	s := settingsFrom(cmd.Context())
	roots := args
	if len(roots) == 0 {
		roots = s.Paths
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}
	paths, err := driver.ListFixtures(roots...)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		if !s.Quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "no fixture files found")
		}
		return nil
	}

	opts := driver.Options{
		MaxDiagnostics: s.MaxDiagnostics,
		Jobs:           s.Jobs,
		Tracer:         trace.FromContext(cmd.Context()),
	}
	if s.Cache {
		cache, err := driver.OpenDiskCache("polyres")
		if err != nil {
			if !s.Quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "cache disabled: %v\n", err)
			}
		} else {
			opts.Cache = cache
		}
	}

	files, reports, err := driver.ResolveFiles(cmd.Context(), paths, opts)
	if err != nil {
		return err
	}

	pathMode, _ := parsePathMode(s.PathMode)
	r := renderer{
		out:      cmd.OutOrStdout(),
		files:    files,
		column:   col,
		pathMode: pathMode,
		base:     s.Root,
		color:    s.Color == "on" || (s.Color == "auto" && isTerminal(os.Stdout)),
		timings:  s.Timings,
		quiet:    s.Quiet,
	}
	if s.Format == "json" {
		err = r.json(reports)
	} else {
		err = r.text(reports)
	}
	if err != nil {
		return err
	}
	for i := range reports {
		if reports[i].HasErrors() {
			return exitError{code: 1}
		}
	}
	return nil
}
