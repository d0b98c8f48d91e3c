package spec

import "fmt"

// Skill is a parsed, validated SKILL.md definition. Constructed fresh on
// every catalog enumeration and never mutated afterwards.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Body is the instructional text surfaced to the caller on invocation
	// (everything after the closing frontmatter marker, trimmed).
	Body string `json:"body,omitempty"`

	// AllowedTools is the verbatim allowed-tools frontmatter value.
	// Empty (after trimming) means no restriction.
	AllowedTools string `json:"allowed_tools,omitempty"`
}

// SkillInfo is the listing record exposed by marketplace list_installed.
type SkillInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ActiveSkill is the single durable record tracked across invocations.
// At most one skill is active at a time; activation is a total replace.
type ActiveSkill struct {
	Name         string `json:"name"`
	AllowedTools string `json:"allowed_tools,omitempty"`
}

// ActivationStore persists the active-skill record across process
// invocations. Implementations fail open: Get maps a missing record and any
// decode failure to "not present", and callers treat Set failures as
// best-effort (an activation that fails to persist is simply not enforced).
type ActivationStore interface {
	Get() (ActiveSkill, bool)
	Set(ActiveSkill) error
	Clear() error
}

// ToolDecision is the outcome of an allow-list check against the currently
// active skill.
type ToolDecision struct {
	Allowed bool `json:"allowed"`

	// Message names the active skill and its allow-list on denial.
	Message string `json:"message,omitempty"`

	ActiveSkill  string `json:"active_skill,omitempty"`
	AllowedTools string `json:"allowed_tools,omitempty"`
}

// Err converts a denial into an error wrapping ErrToolDenied. Returns nil
// when the decision is allowed.
func (d ToolDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrToolDenied, d.Message)
}

type MarketplaceAction string

const (
	MarketplaceActionInstall       MarketplaceAction = "install"
	MarketplaceActionRemove        MarketplaceAction = "remove"
	MarketplaceActionSearch        MarketplaceAction = "search"
	MarketplaceActionList          MarketplaceAction = "list"
	MarketplaceActionListInstalled MarketplaceAction = "list_installed"
)

type MarketplaceArgs struct {
	Action   MarketplaceAction `json:"action"`
	SkillRef string            `json:"skill_ref,omitempty"`
	Query    string            `json:"query,omitempty"`
}

type MarketplaceResult struct {
	Output string `json:"output"`
}

type ReadFileArgs struct {
	// Skill is the name of the installed skill.
	Skill string `json:"skill"`

	// Path is relative to the skill's root directory.
	Path string `json:"path"`
}

type ReadFileResult struct {
	Content string `json:"content"`
}

type RunScriptArgs struct {
	Skill string `json:"skill"`

	// Script is relative to the skill's root directory.
	Script string `json:"script"`

	Args []string `json:"args,omitempty"`

	// Stdin, when non-empty, is buffered and piped to the child before the
	// dispatcher waits for completion.
	Stdin string `json:"stdin,omitempty"`
}

type RunScriptResult struct {
	Script   string `json:"script"`
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	TimedOut bool   `json:"timed_out,omitempty"`

	// Output is the combined human-readable transcript: stdout, a
	// "[stderr]" section, and an explicit exit-code marker on failure.
	Output string `json:"output"`
}

type InvokeArgs struct {
	Arguments string `json:"arguments,omitempty"`
}

type InvokeResult struct {
	Output string `json:"output"`
}
