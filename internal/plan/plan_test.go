package plan

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/runwasm/internal/config"
)

const root = "/work/space"

func TestPlan_DebugPackage(t *testing.T) {
	p := Plan(root, config.Configuration{UnitName: "demo"})

	require.Equal(t, "debug", p.Profile)
	require.Equal(t,
		filepath.Join(root, "target", "wasm-examples-target", "wasm32-unknown-unknown", "debug", "demo.wasm"),
		p.ArtifactPath)
	require.NotContains(t, filepath.ToSlash(p.ArtifactPath), "/examples/")
	require.Equal(t, filepath.Join(root, "target", "wasm-examples", "demo"), p.StagingDir)
	require.Equal(t, filepath.Join(p.StagingDir, "index.html"), p.HostPagePath())
	require.Equal(t, []string{
		"build", "--target", "wasm32-unknown-unknown", "--target-dir", filepath.Join(root, TargetDir),
		"--package", "demo",
	}, p.CompilerArgs)
}

func TestPlan_ReleaseExample(t *testing.T) {
	p := Plan(root, config.Configuration{UnitName: "demo", Release: true, Example: true})

	require.Equal(t, "release", p.Profile)
	require.True(t, strings.HasSuffix(filepath.ToSlash(p.ArtifactPath), "/release/examples/demo.wasm"),
		"unexpected artifact path %s", p.ArtifactPath)
	require.Equal(t, []string{
		"build", "--target", "wasm32-unknown-unknown", "--target-dir", filepath.Join(root, TargetDir),
		"--example", "demo", "--release",
	}, p.CompilerArgs)
}

func TestPlan_FeaturesOrdering(t *testing.T) {
	cfg, err := config.Resolve([]string{"--release", "--features", "a,b", "mycrate"})
	require.NoError(t, err)

	args := Plan(root, cfg).CompilerArgs
	require.Equal(t, []string{
		"build", "--target", "wasm32-unknown-unknown", "--target-dir", filepath.Join(root, TargetDir),
		"--package", "mycrate", "--features", "a,b", "--release",
	}, args)
}

func TestPlan_Deterministic(t *testing.T) {
	cfg := config.Configuration{UnitName: "widget", Example: true, Features: "x"}
	first := Plan(root, cfg)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Plan(root, cfg))
	}
}

func TestPlan_TargetDirSeparateFromNative(t *testing.T) {
	require.NotEqual(t, "target", TargetDir)
	require.NotEqual(t, TargetDir, OutputDir)
}
