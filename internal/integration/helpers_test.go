package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentplane/skillhost"
)

func mustNewHost(t *testing.T, skillsDir string, opts ...skillhost.Option) *skillhost.Host {
	t.Helper()
	h, err := skillhost.New(skillsDir, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h == nil {
		t.Fatalf("New: got nil host")
	}
	return h
}

// writeSkill lays out a skill directory with a SKILL.md and any extra files,
// given as relative path -> content. Paths ending in .sh are made executable.
func writeSkill(t *testing.T, skillsDir, name, skillMD string, files map[string]string) {
	t.Helper()

	dir := filepath.Join(skillsDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(skillMD), 0o644); err != nil {
		t.Fatalf("write SKILL.md: %v", err)
	}
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
		}
		mode := os.FileMode(0o644)
		if filepath.Ext(rel) == ".sh" {
			mode = 0o755
		}
		if err := os.WriteFile(p, []byte(content), mode); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

func skillMD(name, description, allowedTools, body string) string {
	s := "---\nname: " + name + "\ndescription: " + description + "\n"
	if allowedTools != "" {
		s += "allowed-tools: \"" + allowedTools + "\"\n"
	}
	return s + "---\n" + body + "\n"
}
