// Package fscatalog enumerates skill definitions under a skills root
// directory and resolves skill-scoped file paths.
package fscatalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentplane/skillhost/skillmd"
	"github.com/agentplane/skillhost/spec"
)

type Catalog struct {
	root   string
	logger *slog.Logger
}

type Option func(*Catalog)

func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(root string, opts ...Option) *Catalog {
	c := &Catalog{root: root, logger: slog.Default()}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	return c
}

// Root returns the skills root directory.
func (c *Catalog) Root() string { return c.root }

// SkillDir returns the directory a skill of the given name would live in.
// It does not check existence.
func (c *Catalog) SkillDir(name string) string { return filepath.Join(c.root, name) }

// List enumerates immediate subdirectories of the skills root, parses the
// definition in each, drops invalid entries, and returns the result sorted
// by name. A missing root yields an empty catalog. List has no failure mode:
// bad data degrades to fewer skills, never to an error, so partial catalogs
// cannot block unrelated tool calls.
//
// The catalog is rebuilt from the filesystem on every call.
func (c *Catalog) List(ctx context.Context) []spec.Skill {
	if ctx.Err() != nil {
		return nil
	}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil
	}

	var skills []spec.Skill
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) > 0 && name[0] == '.' {
			continue
		}
		s, ierr := skillmd.InspectFile(filepath.Join(c.root, name, skillmd.FileName))
		if ierr != nil {
			c.logger.Debug("skipping non-skill directory", "dir", name, "reason", ierr)
			continue
		}
		skills = append(skills, s)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills
}

// Lookup parses the definition for a single named skill. ok is false if the
// skill does not exist or its definition is invalid.
func (c *Catalog) Lookup(ctx context.Context, name string) (spec.Skill, bool) {
	if ctx.Err() != nil {
		return spec.Skill{}, false
	}
	if !skillmd.ValidName(name) {
		return spec.Skill{}, false
	}
	return skillmd.ParseFile(filepath.Join(c.root, name, skillmd.FileName))
}
