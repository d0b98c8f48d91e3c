// Package marketplace installs and removes skills by fetching the
// skills/<name> subtree of a skills repository. It is a thin collaborator of
// the host core: no state beyond success or failure.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/google/uuid"

	"github.com/agentplane/skillhost/spec"
)

const skillsRepoHint = "https://github.com/anthropics/skills"

type Client struct {
	skillsDir string
	logger    *slog.Logger
}

type Option func(*Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(skillsDir string, opts ...Option) *Client {
	c := &Client{skillsDir: skillsDir, logger: slog.Default()}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	return c
}

// Install fetches a skill into the skills directory. ref is either
// "owner/skill-name" (resolved against the owner's skills repository on
// GitHub) or a full repository URL whose last path segment names the skill.
func (c *Client) Install(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repoURL, skillName, err := parseRef(ref)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(c.skillsDir, 0o755); err != nil {
		return "", fmt.Errorf("create skills directory: %w", err)
	}

	target := filepath.Join(c.skillsDir, skillName)
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("%w: %q is already installed, remove it first to reinstall",
			spec.ErrSkillAlreadyExists, skillName)
	}

	tmp := filepath.Join(c.skillsDir, ".tmp-"+uuid.NewString())
	defer os.RemoveAll(tmp)

	c.logger.Debug("cloning skills repository", "url", repoURL, "skill", skillName)
	if _, err := git.PlainCloneContext(ctx, tmp, false, &git.CloneOptions{
		URL:          repoURL,
		Depth:        1,
		SingleBranch: true,
	}); err != nil {
		return "", fmt.Errorf("clone repository %q: %w", repoURL, err)
	}

	src := filepath.Join(tmp, "skills", skillName)
	if st, err := os.Stat(src); err != nil || !st.IsDir() {
		return "", fmt.Errorf("%w: skill %q not found in repository", spec.ErrSkillNotFound, skillName)
	}
	if err := os.Rename(src, target); err != nil {
		return "", fmt.Errorf("move skill into place: %w", err)
	}

	return fmt.Sprintf("Successfully installed skill %q.", skillName), nil
}

// Remove deletes an installed skill. ref may be a bare name or owner/name.
func (c *Client) Remove(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	skillName := ref
	if idx := strings.LastIndexByte(ref, '/'); idx >= 0 {
		skillName = ref[idx+1:]
	}
	if skillName == "" {
		return "", fmt.Errorf("%w: empty skill reference", spec.ErrInvalidArgument)
	}

	target := filepath.Join(c.skillsDir, skillName)
	if _, err := os.Stat(target); err != nil {
		return "", fmt.Errorf("%w: %q is not installed", spec.ErrSkillNotFound, skillName)
	}
	if err := os.RemoveAll(target); err != nil {
		return "", fmt.Errorf("remove skill: %w", err)
	}
	return fmt.Sprintf("Successfully removed skill %q.", skillName), nil
}

// Search is not backed by an index yet; it points at the public skills
// repository.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Marketplace search not yet implemented. Check %s for available skills matching %q.",
		skillsRepoHint, query), nil
}

// List is not backed by an index yet; it points at the public skills
// repository.
func (c *Client) List(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Marketplace listing not yet implemented. Check %s for available skills.",
		skillsRepoHint), nil
}

func parseRef(ref string) (repoURL, skillName string, err error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", "", fmt.Errorf("%w: skill reference is required", spec.ErrInvalidArgument)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		trimmed := strings.TrimRight(ref, "/")
		name := trimmed[strings.LastIndexByte(trimmed, '/')+1:]
		if name == "" {
			return "", "", fmt.Errorf("%w: invalid skill URL %q", spec.ErrInvalidArgument, ref)
		}
		return ref, name, nil
	case strings.Contains(ref, "/"):
		owner, name, _ := strings.Cut(ref, "/")
		if owner == "" || name == "" {
			return "", "", fmt.Errorf("%w: invalid skill reference %q, use 'owner/skill-name'",
				spec.ErrInvalidArgument, ref)
		}
		return "https://github.com/" + owner + "/skills", name, nil
	default:
		return "", "", errors.Join(
			spec.ErrInvalidArgument,
			fmt.Errorf("invalid skill reference %q, use 'owner/skill-name'", ref),
		)
	}
}
