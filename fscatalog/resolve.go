package fscatalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentplane/skillhost/skillmd"
	"github.com/agentplane/skillhost/spec"
)

// Resolved is a path proven by canonicalization to live inside a skill's
// root directory. Transient: never persisted.
type Resolved struct {
	// Path is the canonical absolute target path.
	Path string

	// Root is the canonical skill root directory containing Path.
	Root string
}

// ResolvePath resolves a caller-supplied relative path against the named
// skill's root directory and enforces containment.
//
// Containment is enforced only after canonicalization, not by inspecting the
// input: symlinks and ".." segments must be neutralized identically, and an
// absolute input must collapse to the same single check. The error split is
// part of the contract: spec.ErrSkillNotFound for an unknown skill,
// spec.ErrFileNotFound for a target that cannot be canonicalized, and
// spec.ErrPathTraversal for anything resolving outside the root. The same
// resolution serves file reads and script execution.
func (c *Catalog) ResolvePath(ctx context.Context, skillName, rel string) (Resolved, error) {
	if err := ctx.Err(); err != nil {
		return Resolved{}, err
	}
	if !skillmd.ValidName(skillName) {
		return Resolved{}, fmt.Errorf("%w: %q", spec.ErrSkillNotFound, skillName)
	}
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return Resolved{}, fmt.Errorf("%w: path is required", spec.ErrInvalidArgument)
	}
	if strings.ContainsRune(rel, '\x00') {
		return Resolved{}, fmt.Errorf("%w: path contains NUL byte", spec.ErrInvalidArgument)
	}

	dir := c.SkillDir(skillName)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return Resolved{}, fmt.Errorf("%w: %q", spec.ErrSkillNotFound, skillName)
	}

	// An absolute input is not joined; it must still land inside the root,
	// which it cannot, so it falls out of the containment check below.
	joined := rel
	if !filepath.IsAbs(rel) {
		joined = filepath.Join(dir, rel)
	}

	canonRoot, err := canonicalize(dir)
	if err != nil {
		return Resolved{}, fmt.Errorf("resolve skill directory %q: %w", skillName, err)
	}
	canonTarget, err := canonicalize(joined)
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: %s", spec.ErrFileNotFound, rel)
	}

	if !within(canonRoot, canonTarget) {
		return Resolved{}, spec.ErrPathTraversal
	}
	return Resolved{Path: canonTarget, Root: canonRoot}, nil
}

func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// within reports whether p equals root or is a descendant of it. Both
// arguments must already be canonical.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	rel = filepath.Clean(rel)
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
