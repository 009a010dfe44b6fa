package provision

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/gitp4setup/internal/config"
	errs "git.home.luguber.info/inful/gitp4setup/internal/errors"
	"git.home.luguber.info/inful/gitp4setup/internal/gitp4"
	"git.home.luguber.info/inful/gitp4setup/internal/logfields"
	"git.home.luguber.info/inful/gitp4setup/internal/metrics"
	"git.home.luguber.info/inful/gitp4setup/internal/p4"
	"git.home.luguber.info/inful/gitp4setup/internal/runner"
	"git.home.luguber.info/inful/gitp4setup/internal/workspace"
)

// Request is the operator input of one run.
type Request struct {
	ClientName string
	DepotPath  string
	Update     bool
}

// Result is what a run produced. It is returned, partially filled, on failure too.
type Result struct {
	RunID      string
	Context    *workspace.Context
	ClientSpec string
	Markers    []string
	Clone      *gitp4.CloneResult
	Repository *gitp4.RepoSummary
	P4Output   string
	Steps      []StepReport
	Duration   time.Duration
}

// State is threaded through the steps of a run.
type State struct {
	Request Request
	Context *workspace.Context
	Result  *Result

	ws       *workspace.Manager
	bridge   *gitp4.Bridge
	p4       *p4.Client
	logger   *slog.Logger
	recorder metrics.Recorder
}

func (st *State) record(rep StepReport) {
	st.Result.Steps = append(st.Result.Steps, rep)
	st.recorder.IncStepResult(string(rep.Name), rep.Result)
	if rep.Result != metrics.ResultSkipped {
		st.recorder.ObserveStepDuration(string(rep.Name), rep.Duration)
	}
}

// Provisioner creates the Perforce client and the git p4 clone for a Request.
type Provisioner struct {
	cfg      *config.Config
	fs       workspace.FS
	env      workspace.Environment
	runner   runner.Runner
	logger   *slog.Logger
	recorder metrics.Recorder
}

// New creates a provisioner backed by the real filesystem, environment and processes.
func New(cfg *config.Config) *Provisioner {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Provisioner{
		cfg:      cfg,
		fs:       workspace.OSFS{},
		env:      workspace.SystemEnvironment{},
		runner:   runner.NewExecRunner(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
}

// WithFS replaces the filesystem layer.
func (p *Provisioner) WithFS(fsys workspace.FS) *Provisioner { p.fs = fsys; return p }

// WithEnvironment replaces the ambient environment (cwd, user, host, clock).
func (p *Provisioner) WithEnvironment(env workspace.Environment) *Provisioner {
	p.env = env
	return p
}

// WithRunner replaces the process runner.
func (p *Provisioner) WithRunner(r runner.Runner) *Provisioner { p.runner = r; return p }

// WithLogger injects the logger every step writes to.
func (p *Provisioner) WithLogger(l *slog.Logger) *Provisioner {
	if l != nil {
		p.logger = l
	}
	return p
}

// WithRecorder injects a metrics recorder.
func (p *Provisioner) WithRecorder(r metrics.Recorder) *Provisioner {
	if r != nil {
		p.recorder = r
	}
	return p
}

// Provision runs all steps for req.
func (p *Provisioner) Provision(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}

	err := p.provision(ctx, req, res)

	res.Duration = time.Since(start)
	p.recorder.ObserveRunDuration(res.Duration)
	if err != nil {
		p.recorder.IncRunOutcome(metrics.OutcomeFailed)
		return res, err
	}
	p.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	return res, nil
}

func (p *Provisioner) provision(ctx context.Context, req Request, res *Result) error {
	req, err := normalizeRequest(req)
	if err != nil {
		return err
	}

	logger := p.logger.With(
		logfields.RunID(res.RunID),
		logfields.Client(req.ClientName),
		logfields.Depot(req.DepotPath))

	layout := workspace.Layout{
		PerforceDir:  p.cfg.Layout.PerforceDir,
		GitDir:       p.cfg.Layout.GitDir,
		ClientSuffix: p.cfg.Layout.ClientSuffix,
		MarkerFile:   p.cfg.Layout.MarkerFile,
	}
	wctx, err := workspace.Derive(p.env, layout, req.ClientName, req.DepotPath)
	if err != nil {
		return errs.InternalError("derive workspace layout", err)
	}
	res.Context = wctx

	checkExit := p.cfg.Tools.ExitStatusChecked()
	st := &State{
		Request:  req,
		Context:  wctx,
		Result:   res,
		ws:       workspace.NewManager(p.fs, wctx, logger),
		bridge:   gitp4.NewBridge(gitp4.BridgeConfig{GitPath: p.cfg.Tools.Git, CheckExitStatus: checkExit}, p.runner, logger),
		p4:       p4.NewClient(p4.ClientConfig{P4Path: p.cfg.Tools.P4, MarkerFile: wctx.MarkerFile, CheckExitStatus: checkExit}, p.runner, logger),
		logger:   logger,
		recorder: p.recorder,
	}

	logger.Info("Provisioning git-p4 workspace",
		logfields.Update(req.Update),
		slog.String("perforce_root", wctx.PerforceRoot),
		slog.String("git_root", wctx.GitRoot))

	if err := RunSteps(ctx, st, Steps()); err != nil {
		return err
	}

	logger.Info("Workspace provisioned",
		slog.String("perforce_client", wctx.ClientName),
		slog.String("git_root", wctx.GitRoot))
	return nil
}

// Steps returns the ordered step list of a provisioning run.
func Steps() []StepDef {
	skipInUpdate := func(st *State) bool { return st.Request.Update }
	return []StepDef{
		{Name: StepPreflight, Fn: preflight},
		{Name: StepGitWorkspace, Fn: createRoot(func(c *workspace.Context) string { return c.GitRoot }), Skip: skipInUpdate},
		{Name: StepGitMarker, Fn: writeMarker(func(c *workspace.Context) string { return c.GitRoot })},
		{Name: StepGitP4Clone, Fn: cloneDepot},
		{Name: StepRenderClientSpec, Fn: renderClientSpec},
		{Name: StepP4Workspace, Fn: createRoot(func(c *workspace.Context) string { return c.PerforceRoot }), Skip: skipInUpdate},
		{Name: StepP4Marker, Fn: writeMarker(func(c *workspace.Context) string { return c.PerforceRoot })},
		{Name: StepP4Client, Fn: registerClient},
	}
}

func normalizeRequest(req Request) (Request, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.DepotPath = strings.TrimSpace(req.DepotPath)

	if req.ClientName == "" {
		return req, errs.ValidationFailed("P4CLIENT", "must not be empty")
	}
	if strings.ContainsAny(req.ClientName, `/\`) || hasSpaceOrControl(req.ClientName) {
		return req, errs.ValidationFailed("P4CLIENT", "must not contain slashes, whitespace or control characters")
	}
	if req.ClientName == "." || req.ClientName == ".." {
		return req, errs.ValidationFailed("P4CLIENT", "must not be . or ..")
	}
	if hasSpaceOrControl(req.DepotPath) {
		return req, errs.ValidationFailed("P4DEPOT", "must not contain whitespace or control characters")
	}
	if !strings.HasPrefix(req.DepotPath, "//") || len(strings.Trim(req.DepotPath, "/")) == 0 {
		return req, errs.ValidationFailed("P4DEPOT", "must be a depot path like //depot/stream")
	}
	if strings.HasSuffix(req.DepotPath, "/...") {
		return req, errs.ValidationFailed("P4DEPOT", "must not include a trailing /... wildcard")
	}
	req.DepotPath = strings.TrimRight(req.DepotPath, "/")
	return req, nil
}

// hasSpaceOrControl reports whether s would break a field of the client spec.
func hasSpaceOrControl(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0
}

// preflight verifies both roots before anything is created or any tool runs.
func preflight(_ context.Context, st *State) error {
	for _, root := range st.Context.Roots() {
		exists, err := st.ws.Exists(root)
		if err != nil {
			return errs.WorkspaceError("stat", root, err)
		}
		switch {
		case exists && !st.Request.Update:
			return errs.DirectoryExists(root)
		case !exists && st.Request.Update:
			return errs.DirectoryMissing(root)
		}
	}
	return nil
}

func createRoot(root func(*workspace.Context) string) StepFunc {
	return func(_ context.Context, st *State) error {
		dir := root(st.Context)
		if err := st.ws.Create(dir); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return errs.DirectoryExists(dir)
			}
			return errs.WorkspaceError("mkdir", dir, err)
		}
		return nil
	}
}

func writeMarker(root func(*workspace.Context) string) StepFunc {
	return func(_ context.Context, st *State) error {
		dir := root(st.Context)
		path, err := st.ws.WriteMarker(dir)
		if err != nil {
			return errs.WorkspaceError("write marker", dir, err)
		}
		st.Result.Markers = append(st.Result.Markers, path)
		return nil
	}
}

func cloneDepot(ctx context.Context, st *State) error {
	clone, err := st.bridge.Clone(ctx, st.Context.DepotPath, st.Context.GitRoot)
	st.Result.Clone = clone
	if clone != nil {
		st.recorder.ObserveCloneLines(clone.Lines)
	}
	if err != nil {
		return errs.ToolFailed(errs.CategoryBridge, string(StepGitP4Clone), err)
	}

	summary, err := gitp4.Inspect(st.Context.GitRoot)
	if err != nil {
		st.logger.Warn("Could not inspect cloned repository", logfields.Path(st.Context.GitRoot), logfields.Error(err))
		return nil
	}
	st.Result.Repository = summary
	st.logger.Info("Depot cloned",
		logfields.Path(st.Context.GitRoot),
		logfields.Branch(summary.Branch),
		logfields.Commit(summary.Head))
	return nil
}

func renderClientSpec(_ context.Context, st *State) error {
	c := st.Context
	spec, err := p4.Render(p4.ClientSpec{
		Client:    c.ClientName,
		Update:    c.Timestamp,
		Access:    c.Timestamp,
		Owner:     c.Owner,
		Host:      c.Host,
		Root:      c.PerforceRoot,
		DepotPath: c.DepotPath,
	})
	if err != nil {
		return errs.InternalError("render client specification", err)
	}
	st.Result.ClientSpec = spec
	return nil
}

func registerClient(ctx context.Context, st *State) error {
	out, err := st.p4.ApplySpec(ctx, st.Context.ClientName, st.Result.ClientSpec, st.Context.PerforceRoot)
	if err != nil {
		return errs.ToolFailed(errs.CategoryPerforce, string(StepP4Client), err)
	}
	st.Result.P4Output = out.Output
	return nil
}
