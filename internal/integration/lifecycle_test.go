package integration

import (
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/agentplane/skillhost"
	"github.com/agentplane/skillhost/hook"
	"github.com/agentplane/skillhost/spec"
)

// Exercises the whole flow a hosting agent drives: schema-time listing,
// skill invocation via the pre_tool hook, allow-list enforcement, sandboxed
// reads and script runs, and session reset.
func TestSkillLifecycle(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("requires bash")
	}
	ctx := context.Background()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "csv-summary",
		skillMD("csv-summary", "Summarize CSV files", "Read, run_skill_script",
			"Use scripts/rows.sh to count rows."),
		map[string]string{
			"scripts/rows.sh":    "#!/bin/bash\nwc -l < \"$1\"\n",
			"references/cols.md": "id,name,amount\n",
		})

	h := mustNewHost(t, skillsDir)

	prompt := h.SystemPrompt(ctx)
	if !strings.Contains(prompt, "csv-summary") {
		t.Fatalf("system prompt missing skill: %q", prompt)
	}

	// Invoking the skill tool activates it and returns instructions.
	resp, err := hook.PreTool(ctx, h, []byte(`{"tool_name":"skill_csv-summary"}`))
	if err != nil {
		t.Fatalf("PreTool: %v", err)
	}
	if string(resp) != "{}" {
		t.Fatalf("activation response = %s", resp)
	}

	// Enforcement: Write blocked, Read and exempt tools allowed.
	resp, err = hook.PreTool(ctx, h, []byte(`{"tool_name":"Write"}`))
	if err != nil {
		t.Fatal(err)
	}
	var blocked hook.BlockResponse
	if err := json.Unmarshal(resp, &blocked); err != nil || !blocked.Block {
		t.Fatalf("Write should block, got %s (err %v)", resp, err)
	}
	for _, tool := range []string{"Read", "run_skill_script", "read_skill_file", "skill_marketplace"} {
		resp, err = hook.PreTool(ctx, h, []byte(`{"tool_name":"`+tool+`"}`))
		if err != nil {
			t.Fatal(err)
		}
		if string(resp) != "{}" {
			t.Errorf("%s should pass, got %s", tool, resp)
		}
	}

	// Sandboxed read and script run against the activated skill.
	content, err := h.ReadFile(ctx, spec.ReadFileArgs{Skill: "csv-summary", Path: "references/cols.md"})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if content != "id,name,amount\n" {
		t.Errorf("content = %q", content)
	}

	res, err := h.RunScript(ctx, spec.RunScriptArgs{
		Skill:  "csv-summary",
		Script: "scripts/rows.sh",
		Args:   []string{"references/cols.md"},
	})
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if res.ExitCode != 0 || strings.TrimSpace(res.Output) != "1" {
		t.Errorf("script result = %+v", res)
	}

	// on_start resets the session: enforcement stops.
	if _, err := hook.OnStart(ctx, h); err != nil {
		t.Fatal(err)
	}
	resp, err = hook.PreTool(ctx, h, []byte(`{"tool_name":"Write"}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(resp) != "{}" {
		t.Errorf("Write should pass after reset, got %s", resp)
	}
}

// Two hosts over the same directories model two process invocations. The
// activation written by one is visible to the other, and a later activation
// replaces an earlier one wholesale.
func TestActivationPersistsAcrossHosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "aaa", skillMD("aaa", "First", "Read", "A."), nil)
	writeSkill(t, skillsDir, "bbb", skillMD("bbb", "Second", "Grep", "B."), nil)
	stateFile := filepath.Join(skillsDir, ".active_skill.json")

	first := mustNewHost(t, skillsDir, skillhost.WithStateFile(stateFile))
	second := mustNewHost(t, skillsDir, skillhost.WithStateFile(stateFile))

	if err := first.Activate(ctx, "aaa"); err != nil {
		t.Fatal(err)
	}
	if d := second.CheckTool(ctx, "Grep"); d.Allowed {
		t.Errorf("Grep should be denied while aaa active")
	}

	if err := second.Activate(ctx, "bbb"); err != nil {
		t.Fatal(err)
	}
	d := first.CheckTool(ctx, "Read")
	if d.Allowed {
		t.Errorf("Read should be denied after bbb replaced aaa")
	}
	if d.ActiveSkill != "bbb" {
		t.Errorf("active skill = %q, want bbb", d.ActiveSkill)
	}
}

// Catalog enumeration builds fresh state per call, so concurrent listings
// and lookups need no coordination.
func TestConcurrentListingsAndChecks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	skillsDir := t.TempDir()
	for _, name := range []string{"one", "two", "three"} {
		writeSkill(t, skillsDir, name, skillMD(name, "Skill "+name, "", "Body."), nil)
	}
	h := mustNewHost(t, skillsDir)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 20 {
				if got := len(h.ListSkills(ctx)); got != 3 {
					t.Errorf("ListSkills = %d skills, want 3", got)
					return
				}
				if d := h.CheckTool(ctx, "Read"); !d.Allowed {
					t.Errorf("CheckTool denied with no active skill")
					return
				}
			}
		})
	}
	wg.Wait()
}
