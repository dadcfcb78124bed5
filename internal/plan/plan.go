// Package plan derives everything a build needs to know about paths and compiler
// arguments from a workspace root and a resolved configuration. It performs no I/O.
package plan

import (
	"path/filepath"

	"git.home.luguber.info/inful/runwasm/internal/config"
)

const (
	// TargetTriple is the compiler target for browser web-assembly.
	TargetTriple = "wasm32-unknown-unknown"

	// HostPageName is the file name of the generated host page inside the staging directory.
	HostPageName = "index.html"
)

var (
	// TargetDir is the compiler output root, relative to the workspace root. It is kept
	// apart from the native target/ tree so flag differences between native and wasm
	// builds never invalidate each other's cached state.
	TargetDir = filepath.Join("target", "wasm-examples-target")

	// OutputDir holds one staging directory per unit, relative to the workspace root.
	OutputDir = filepath.Join("target", "wasm-examples")
)

// BuildPlan is the derived, immutable description of one build.
type BuildPlan struct {
	CompilerArgs []string
	ArtifactPath string
	StagingDir   string
	Profile      string
}

// Plan maps a workspace root and configuration to a BuildPlan.
func Plan(root string, cfg config.Configuration) BuildPlan {
	profile := cfg.Profile()
	targetDir := filepath.Join(root, TargetDir)

	args := []string{"build", "--target", TargetTriple, "--target-dir", targetDir}
	if cfg.Example {
		args = append(args, "--example", cfg.UnitName)
	} else {
		args = append(args, "--package", cfg.UnitName)
	}
	if cfg.Features != "" {
		args = append(args, "--features", cfg.Features)
	}
	if cfg.Release {
		args = append(args, "--release")
	}

	artifactDir := filepath.Join(targetDir, TargetTriple, profile)
	if cfg.Example {
		artifactDir = filepath.Join(artifactDir, "examples")
	}

	return BuildPlan{
		CompilerArgs: args,
		ArtifactPath: filepath.Join(artifactDir, cfg.UnitName+".wasm"),
		StagingDir:   filepath.Join(root, OutputDir, cfg.UnitName),
		Profile:      profile,
	}
}

// HostPagePath returns the location of the generated host page.
func (p BuildPlan) HostPagePath() string {
	return filepath.Join(p.StagingDir, HostPageName)
}
