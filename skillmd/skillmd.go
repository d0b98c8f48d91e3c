// Package skillmd parses SKILL.md skill definitions.
//
// The exported Parse/ParseFile contract is "absent on any problem": malformed
// input and intentionally-not-a-skill input are indistinguishable to callers,
// so catalog enumeration can silently skip non-skill directories. Inspect
// exposes the distinguishable reject reasons for diagnostics only.
package skillmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agentplane/skillhost/spec"
)

const (
	// FileName is the fixed definition filename inside a skill directory.
	FileName = "SKILL.md"

	maxSkillMDBytes = 2 << 20 // 2 MiB

	maxNameLen        = 64
	maxDescriptionLen = 1024
)

// Reject reasons surfaced by Inspect. Callers must not let these escape the
// catalog boundary; externally a rejected definition is simply absent.
var (
	ErrNoFrontmatter           = errors.New("missing frontmatter block")
	ErrUnterminatedFrontmatter = errors.New("unterminated frontmatter (missing closing ---)")
	ErrBadFrontmatter          = errors.New("invalid frontmatter YAML")
	ErrInvalidName             = errors.New("invalid skill name")
	ErrInvalidDescription      = errors.New("invalid skill description")
)

// Parse parses raw SKILL.md content. ok is false on any problem.
func Parse(content string) (spec.Skill, bool) {
	s, err := Inspect(content)
	if err != nil {
		return spec.Skill{}, false
	}
	return s, true
}

// ParseFile parses the definition file at path. ok is false on any problem,
// including a missing, oversized, or non-regular file.
func ParseFile(path string) (spec.Skill, bool) {
	s, err := InspectFile(path)
	if err != nil {
		return spec.Skill{}, false
	}
	return s, true
}

// Inspect parses raw SKILL.md content and reports why a definition was
// rejected. Diagnostic use only.
func Inspect(content string) (spec.Skill, error) {
	fm, body, has, err := splitFrontmatter(content)
	if err != nil {
		return spec.Skill{}, err
	}
	if !has {
		return spec.Skill{}, ErrNoFrontmatter
	}

	props := map[string]any{}
	if err := yaml.Unmarshal([]byte(fm), &props); err != nil {
		return spec.Skill{}, fmt.Errorf("%w: %w", ErrBadFrontmatter, err)
	}

	name := strings.TrimSpace(asString(props["name"]))
	desc := strings.TrimSpace(asString(props["description"]))

	if err := validateName(name); err != nil {
		return spec.Skill{}, err
	}
	if err := validateDescription(desc); err != nil {
		return spec.Skill{}, err
	}

	return spec.Skill{
		Name:         name,
		Description:  desc,
		Body:         strings.TrimSpace(body),
		AllowedTools: asString(props["allowed-tools"]),
	}, nil
}

// InspectFile is Inspect over the file at path.
func InspectFile(path string) (spec.Skill, error) {
	if lst, lerr := os.Lstat(path); lerr == nil {
		if lst.Mode()&os.ModeSymlink != 0 {
			return spec.Skill{}, fmt.Errorf("%s must not be a symlink", FileName)
		}
		if !lst.Mode().IsRegular() {
			return spec.Skill{}, fmt.Errorf("%s must be a regular file", FileName)
		}
	}

	b, err := readAllLimited(path)
	if err != nil {
		return spec.Skill{}, err
	}
	return Inspect(string(b))
}

// ValidName reports whether name satisfies the skill-name invariant:
// 1 to 64 characters from [a-z0-9-].
func ValidName(name string) bool {
	return validateName(name) == nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: too long (max %d)", ErrInvalidName, maxNameLen)
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			continue
		}
		return fmt.Errorf("%w: invalid character %q", ErrInvalidName, string(r))
	}
	return nil
}

func validateDescription(desc string) error {
	if desc == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidDescription)
	}
	if len(desc) > maxDescriptionLen {
		return fmt.Errorf("%w: too long (max %d)", ErrInvalidDescription, maxDescriptionLen)
	}
	return nil
}

func readAllLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(maxSkillMDBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(data) > maxSkillMDBytes {
		return nil, fmt.Errorf("%s too large (max %d bytes)", FileName, maxSkillMDBytes)
	}
	return data, nil
}

func splitFrontmatter(s string) (frontmatter, body string, has bool, err error) {
	br := bufio.NewReader(strings.NewReader(s))

	first, ferr := br.ReadString('\n')
	if ferr != nil && !errors.Is(ferr, io.EOF) {
		return "", "", false, fmt.Errorf("read first line: %w", ferr)
	}
	if strings.TrimSpace(strings.TrimRight(first, "\r\n")) != "---" {
		return "", s, false, nil
	}

	var fmLines []string
	foundEnd := false
	for {
		line, lerr := br.ReadString('\n')
		if lerr != nil && !errors.Is(lerr, io.EOF) {
			return "", "", false, fmt.Errorf("read frontmatter line: %w", lerr)
		}
		lineTrim := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(lineTrim) == "---" {
			foundEnd = true
			break
		}
		fmLines = append(fmLines, lineTrim)
		if errors.Is(lerr, io.EOF) {
			break
		}
	}
	if !foundEnd {
		return "", "", false, ErrUnterminatedFrontmatter
	}

	rest, rerr := io.ReadAll(br)
	if rerr != nil {
		return "", "", false, fmt.Errorf("read body: %w", rerr)
	}
	return strings.Join(fmLines, "\n"), string(rest), true, nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
