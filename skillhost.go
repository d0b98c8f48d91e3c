// Package skillhost turns a directory of declarative skill definitions into
// callable capabilities, enforces a per-activation tool allow-list, and lets
// an active skill read or execute files from its own directory without
// escaping it.
package skillhost

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentplane/skillhost/activestate"
	"github.com/agentplane/skillhost/allowlist"
	"github.com/agentplane/skillhost/fscatalog"
	"github.com/agentplane/skillhost/marketplace"
	"github.com/agentplane/skillhost/scriptrun"
	"github.com/agentplane/skillhost/spec"
)

type Host struct {
	logger  *slog.Logger
	catalog *fscatalog.Catalog
	store   spec.ActivationStore
	runner  *scriptrun.Runner
	market  *marketplace.Client
}

func New(skillsDir string, opts ...Option) (*Host, error) {
	if strings.TrimSpace(skillsDir) == "" {
		return nil, fmt.Errorf("%w: skills directory is required", spec.ErrInvalidArgument)
	}

	o := hostOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.store == nil {
		statePath := o.statePath
		if statePath == "" {
			statePath = filepath.Join(skillsDir, activestate.DefaultFileName)
		}
		o.store = activestate.NewFileStore(statePath)
	}

	runnerOpts := []scriptrun.Option{scriptrun.WithLogger(o.logger)}
	if o.scriptTimeoutSet {
		runnerOpts = append(runnerOpts, scriptrun.WithTimeout(o.scriptTimeout))
	}

	return &Host{
		logger:  o.logger,
		catalog: fscatalog.New(skillsDir, fscatalog.WithLogger(o.logger)),
		store:   o.store,
		runner:  scriptrun.New(runnerOpts...),
		market:  marketplace.New(skillsDir, marketplace.WithLogger(o.logger)),
	}, nil
}

// SkillsDir returns the skills root directory.
func (h *Host) SkillsDir() string { return h.catalog.Root() }

// ListSkills enumerates installed skills, sorted by name. Invalid
// definitions are skipped; a missing skills directory yields an empty list.
func (h *Host) ListSkills(ctx context.Context) []spec.Skill {
	return h.catalog.List(ctx)
}

// Invoke loads the named skill, marks it active, and returns its
// instructional body. Activation persistence is best-effort: a failed write
// means the allow-list is simply not enforced, consistent with the store's
// fail-open reads.
func (h *Host) Invoke(ctx context.Context, name string, args spec.InvokeArgs) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	skill, ok := h.catalog.Lookup(ctx, name)
	if !ok {
		return "", fmt.Errorf("%w: %q not found or invalid", spec.ErrSkillNotFound, name)
	}

	if err := h.store.Set(spec.ActiveSkill{Name: skill.Name, AllowedTools: skill.AllowedTools}); err != nil {
		h.logger.Warn("failed to persist skill activation", "skill", skill.Name, "error", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Skill: %s\n\n%s", skill.Name, skill.Body)
	if args.Arguments != "" {
		fmt.Fprintf(&b, "\n\n## Arguments\n%s", args.Arguments)
	}
	if dirs := h.supportingDirs(name); len(dirs) > 0 {
		fmt.Fprintf(&b,
			"\n\n## Supporting Files\nThis skill has supporting files in: %s\n"+
				"- Use `read_skill_file` to read file contents\n"+
				"- Use `run_skill_script` to execute scripts",
			strings.Join(dirs, ", "))
	}
	return b.String(), nil
}

// Activate marks the named skill active without returning its body. Used by
// the pre-tool hook, which observes the invocation before the tool runs.
func (h *Host) Activate(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	skill, ok := h.catalog.Lookup(ctx, name)
	if !ok {
		return fmt.Errorf("%w: %q not found or invalid", spec.ErrSkillNotFound, name)
	}
	if err := h.store.Set(spec.ActiveSkill{Name: skill.Name, AllowedTools: skill.AllowedTools}); err != nil {
		h.logger.Warn("failed to persist skill activation", "skill", skill.Name, "error", err)
	}
	return nil
}

// ActiveSkill returns the currently active skill, if any.
func (h *Host) ActiveSkill() (spec.ActiveSkill, bool) {
	return h.store.Get()
}

// ClearActive removes any activation record. Called at session start.
func (h *Host) ClearActive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.store.Clear()
}

// CheckTool evaluates whether a tool call is permitted under the active
// skill's allow-list. With no active skill, or an active skill that declares
// no allow-list, everything is permitted.
func (h *Host) CheckTool(ctx context.Context, toolName string) spec.ToolDecision {
	if ctx.Err() != nil {
		return spec.ToolDecision{Allowed: true}
	}

	active, ok := h.store.Get()
	if !ok || strings.TrimSpace(active.AllowedTools) == "" {
		return spec.ToolDecision{Allowed: true}
	}

	if allowlist.Parse(active.AllowedTools).Allows(toolName) {
		return spec.ToolDecision{
			Allowed:      true,
			ActiveSkill:  active.Name,
			AllowedTools: active.AllowedTools,
		}
	}
	return spec.ToolDecision{
		Allowed:      false,
		ActiveSkill:  active.Name,
		AllowedTools: active.AllowedTools,
		Message: fmt.Sprintf("Tool '%s' is not allowed while skill '%s' is active. Allowed tools: %s",
			toolName, active.Name, active.AllowedTools),
	}
}

// ReadFile reads a file from a skill's directory. The path is resolved and
// containment-checked before any I/O.
func (h *Host) ReadFile(ctx context.Context, args spec.ReadFileArgs) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, err := h.catalog.ResolvePath(ctx, args.Skill, args.Path)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(res.Path)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", args.Path, err)
	}
	return string(b), nil
}

// RunScript executes a script from a skill's directory. The same containment
// check as ReadFile applies; the child's working directory is the skill
// root. A failing script is a successful invocation whose Output carries an
// exit-code marker.
func (h *Host) RunScript(ctx context.Context, args spec.RunScriptArgs) (spec.RunScriptResult, error) {
	if err := ctx.Err(); err != nil {
		return spec.RunScriptResult{}, err
	}
	res, err := h.catalog.ResolvePath(ctx, args.Skill, args.Script)
	if err != nil {
		return spec.RunScriptResult{}, err
	}

	r, err := h.runner.Run(ctx, scriptrun.Request{
		Path:    res.Path,
		WorkDir: res.Root,
		Args:    args.Args,
		Stdin:   args.Stdin,
	})
	if err != nil {
		return spec.RunScriptResult{}, err
	}
	return spec.RunScriptResult{
		Script:   args.Script,
		ExitCode: r.ExitCode,
		Stdout:   r.Stdout,
		Stderr:   r.Stderr,
		TimedOut: r.TimedOut,
		Output:   r.Combined(),
	}, nil
}

// SystemPrompt returns the available-skills addendum for the host's system
// prompt, or "" when no skills are installed.
func (h *Host) SystemPrompt(ctx context.Context) string {
	skills := h.catalog.List(ctx)
	if len(skills) == 0 {
		return ""
	}

	lines := []string{"## Available Agent Skills", ""}
	for _, s := range skills {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", s.Name, s.Description))
	}
	lines = append(lines, "",
		"Use skill_[name] tools to invoke a skill and receive detailed instructions.")
	return strings.Join(lines, "\n")
}

// Marketplace dispatches a marketplace action and returns human-readable
// output.
func (h *Host) Marketplace(ctx context.Context, args spec.MarketplaceArgs) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch args.Action {
	case spec.MarketplaceActionInstall:
		if strings.TrimSpace(args.SkillRef) == "" {
			return "", fmt.Errorf("%w: skill_ref required for install", spec.ErrInvalidArgument)
		}
		return h.market.Install(ctx, args.SkillRef)
	case spec.MarketplaceActionRemove:
		if strings.TrimSpace(args.SkillRef) == "" {
			return "", fmt.Errorf("%w: skill_ref required for remove", spec.ErrInvalidArgument)
		}
		return h.market.Remove(ctx, args.SkillRef)
	case spec.MarketplaceActionSearch:
		return h.market.Search(ctx, args.Query)
	case spec.MarketplaceActionList:
		return h.market.List(ctx)
	case spec.MarketplaceActionListInstalled:
		skills := h.catalog.List(ctx)
		if len(skills) == 0 {
			return "No skills installed. Use 'install' action to add skills.", nil
		}
		infos := make([]spec.SkillInfo, 0, len(skills))
		for _, s := range skills {
			infos = append(infos, spec.SkillInfo{Name: s.Name, Description: s.Description})
		}
		b, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode skill list: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", spec.ErrInvalidArgument, args.Action)
	}
}

// supportingDirs reports which conventional supporting directories exist for
// a skill.
func (h *Host) supportingDirs(name string) []string {
	var out []string
	for _, d := range []string{"scripts", "references", "assets"} {
		if st, err := os.Stat(filepath.Join(h.catalog.SkillDir(name), d)); err == nil && st.IsDir() {
			out = append(out, d)
		}
	}
	return out
}
