package fscatalog

import (
	"os"
	"path/filepath"
	"testing"
)

// writeSkill creates root/name/SKILL.md with the given content and returns
// the skill directory.
func writeSkill(t *testing.T, root, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func minimalSkillMD(name string) string {
	return "---\nname: " + name + "\ndescription: description of " + name + "\n---\nInstructions for " + name + ".\n"
}
