package preflight

import (
	"context"
	"path/filepath"

	"streamsched/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the filesystem and database checks for cfg. The config
// document directory is only checked when it differs from the data directory.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if docDir := filepath.Dir(cfg.Paths.ConfigFile); cfg.Paths.ConfigFile != "" && docDir != filepath.Clean(cfg.Paths.DataDir) {
		results = append(results, CheckDirectoryAccess("Config document directory", docDir))
	}
	results = append(results,
		CheckDatabase(ctx, cfg.DatabasePath()),
		CheckConfigDocument(cfg.Paths.ConfigFile),
	)
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
