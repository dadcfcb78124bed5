package build

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/runwasm/internal/config"
	derrors "git.home.luguber.info/inful/runwasm/internal/foundation/errors"
	"git.home.luguber.info/inful/runwasm/internal/logfields"
	"git.home.luguber.info/inful/runwasm/internal/metrics"
	"git.home.luguber.info/inful/runwasm/internal/observability"
	"git.home.luguber.info/inful/runwasm/internal/plan"
	"git.home.luguber.info/inful/runwasm/internal/site"
	"git.home.luguber.info/inful/runwasm/internal/toolchain"
	"git.home.luguber.info/inful/runwasm/internal/workspace"
)

// Stage names used in logs and metrics.
const (
	StageGuard   = "guard"
	StageCompile = "compile"
	StageStaging = "staging"
	StageBindgen = "bindgen"
	StageRender  = "render"
)

// Status represents the outcome of a pipeline run.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusRejected Status = "rejected"
)

// Result describes a finished pipeline run.
type Result struct {
	Status   Status
	BuildID  string
	Plan     plan.BuildPlan
	HostPage string // path of the written host page
	Duration time.Duration
}

// StagingDir returns the directory holding the servable site.
func (r *Result) StagingDir() string {
	return r.Plan.StagingDir
}

// Pipeline wires the compiler and binding generator collaborators.
type Pipeline struct {
	compiler toolchain.Compiler
	bindgen  toolchain.Bindgen
	recorder metrics.Recorder
	newID    func() string
}

// NewPipeline creates a Pipeline with a no-op metrics recorder.
func NewPipeline(compiler toolchain.Compiler, bindgen toolchain.Bindgen) *Pipeline {
	return &Pipeline{
		compiler: compiler,
		bindgen:  bindgen,
		recorder: metrics.NoopRecorder{},
		newID:    uuid.NewString,
	}
}

// WithRecorder sets the metrics recorder.
func (p *Pipeline) WithRecorder(r metrics.Recorder) *Pipeline {
	if r != nil {
		p.recorder = r
	}
	return p
}

// Run builds cfg.UnitName inside the workspace at root and writes a host page embedding css.
// The returned Result is non-nil even when err is not.
func (p *Pipeline) Run(ctx context.Context, root string, cfg config.Configuration, css string) (*Result, error) {
	start := time.Now()
	result := &Result{BuildID: p.newID()}
	ctx = observability.WithUnit(observability.WithBuildID(ctx, result.BuildID), cfg.UnitName)

	fail := func(stage string, status Status, err error) (*Result, error) {
		result.Status = status
		result.Duration = time.Since(start)
		p.recorder.IncStageResult(stage, metrics.ResultFatal)
		if status == StatusRejected {
			p.recorder.IncBuildOutcome(metrics.BuildOutcomeRejected)
		} else {
			p.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		}
		p.recorder.ObserveBuildDuration(result.Duration)
		return result, err
	}

	// The guard runs before anything touches the filesystem or starts a process.
	if err := site.CheckStyle(css); err != nil {
		return fail(StageGuard, StatusRejected, derrors.GuardError("refusing to embed css fragment").
			WithCause(err).
			Build())
	}

	result.Plan = plan.Plan(root, cfg)
	observability.InfoContext(ctx, "Building unit for web-assembly",
		logfields.Kind(cfg.UnitKind()),
		logfields.Profile(result.Plan.Profile))

	stageCtx := observability.WithStage(ctx, StageCompile)
	stageStart := time.Now()
	if err := p.compiler.Compile(stageCtx, root, result.Plan.CompilerArgs); err != nil {
		b := derrors.CompilerError("compiler failed").WithCause(err)
		if errors.Is(err, toolchain.ErrCompilerFailed) {
			// The compiler already printed its own diagnostics.
			observability.DebugContext(stageCtx, "Compiler exited unsuccessfully", logfields.Error(err))
			b = b.Diagnosed()
		}
		return fail(StageCompile, StatusFailed, b.Build())
	}
	p.observeStage(StageCompile, stageStart)

	stageStart = time.Now()
	if err := workspace.EnsureDir(result.Plan.StagingDir); err != nil {
		return fail(StageStaging, StatusFailed, derrors.FileSystemError("failed to create staging directory").
			WithCause(err).
			WithContext("path", result.Plan.StagingDir).
			Build())
	}
	p.observeStage(StageStaging, stageStart)

	stageCtx = observability.WithStage(ctx, StageBindgen)
	stageStart = time.Now()
	if _, err := os.Stat(result.Plan.ArtifactPath); err != nil {
		observability.ErrorContext(stageCtx, "Compiled artifact not found at predicted path",
			logfields.Path(result.Plan.ArtifactPath))
		return fail(StageBindgen, StatusFailed, derrors.ArtifactError("wasm artifact not found").
			WithCause(err).
			WithContext("path", result.Plan.ArtifactPath).
			Build())
	}
	req := toolchain.BindgenRequest{
		Web:                   true,
		OmitDefaultModulePath: false,
		Input:                 result.Plan.ArtifactPath,
		OutDir:                result.Plan.StagingDir,
	}
	if err := p.bindgen.Generate(stageCtx, req); err != nil {
		return fail(StageBindgen, StatusFailed, derrors.ArtifactError("binding generation failed").
			WithCause(err).
			WithContext("path", result.Plan.ArtifactPath).
			Build())
	}
	p.observeStage(StageBindgen, stageStart)

	stageStart = time.Now()
	hostPage, err := site.Write(result.Plan.StagingDir, site.Render(cfg.UnitName, css))
	if err != nil {
		return fail(StageRender, StatusFailed, derrors.FileSystemError("failed to write host page").
			WithCause(err).
			Build())
	}
	p.observeStage(StageRender, stageStart)

	result.HostPage = hostPage
	result.Status = StatusSuccess
	result.Duration = time.Since(start)
	p.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	p.recorder.ObserveBuildDuration(result.Duration)
	observability.InfoContext(ctx, "Web artifacts ready",
		logfields.Path(result.Plan.StagingDir),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	p.recorder.ObserveStageDuration(stage, time.Since(start))
	p.recorder.IncStageResult(stage, metrics.ResultSuccess)
}
