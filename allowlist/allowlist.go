// Package allowlist parses and evaluates allowed-tools specifications.
//
// A specification is a comma-separated list of entries, each a bare tool
// name ("Read") or a name with a parenthesized pattern suffix
// ("Bash(git:*)"). The suffix is accepted syntactically but never evaluated:
// a base-name match admits the whole tool. Entry.Pattern keeps the gap
// visible rather than implicit.
package allowlist

import "strings"

// Names of the management tools and the skill-invocation prefix that are
// exempt from allow-list enforcement. The exemptions are checked strictly
// after explicit entries, so an allow-list can only broaden, never narrow,
// access to them.
const (
	ToolMarketplace = "skill_marketplace"
	ToolReadFile    = "read_skill_file"
	ToolRunScript   = "run_skill_script"

	InvokePrefix = "skill_"
)

// Entry is one allow-list element.
type Entry struct {
	// Name is the tool name, excluding any pattern suffix.
	Name string

	// Pattern is the text inside the parentheses, without them. It is
	// recorded for diagnostics but not evaluated.
	Pattern string

	HasPattern bool
}

// List is a parsed allow-list specification.
type List struct {
	entries []Entry
	raw     string
}

// Parse splits spec on commas, trims whitespace, and classifies each entry.
// Empty entries are dropped.
func Parse(spec string) List {
	l := List{raw: spec}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.IndexByte(part, '('); idx >= 0 {
			l.entries = append(l.entries, Entry{
				Name:       part[:idx],
				Pattern:    strings.TrimSuffix(part[idx+1:], ")"),
				HasPattern: true,
			})
			continue
		}
		l.entries = append(l.entries, Entry{Name: part})
	}
	return l
}

// Entries returns the parsed entries in specification order.
func (l List) Entries() []Entry { return append([]Entry(nil), l.entries...) }

// String returns the original specification text, for denial messages.
func (l List) String() string { return l.raw }

// Allows reports whether tool may be called under this allow-list.
//
// Explicit entries are consulted first; a pattern entry matches on base name
// alone (the sub-pattern is not applied). The management-tool and
// skill-invocation exemptions come after, so they cannot be overridden.
func (l List) Allows(tool string) bool {
	for _, e := range l.entries {
		if tool == e.Name {
			return true
		}
	}
	return Exempt(tool)
}

// Exempt reports whether tool is unconditionally allowed regardless of any
// active allow-list.
func Exempt(tool string) bool {
	switch tool {
	case ToolMarketplace, ToolReadFile, ToolRunScript:
		return true
	}
	return strings.HasPrefix(tool, InvokePrefix)
}
