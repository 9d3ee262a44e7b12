package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"polyres/internal/prof"
)

// setupProfiling starts the profilers named by the root persistent flags.
// The returned cleanup is safe to call more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	for name, dst := range map[string]*string{"cpu-profile": &cfg.CPU, "mem-profile": &cfg.Mem, "runtime-trace": &cfg.Trace} {
		v, err := pf.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !cfg.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
