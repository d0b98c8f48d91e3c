package skilltool

import (
	"context"
	"encoding/json"

	"github.com/agentplane/skillhost"
	"github.com/agentplane/skillhost/allowlist"
)

// SchemaTool is one entry in the host-facing tool schema listing.
type SchemaTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
	Hooks       []string        `json:"hooks,omitempty"`
}

const (
	marketplaceParams = `{
  "type": "object",
  "properties": {
    "action": {"type": "string", "enum": ["install", "remove", "search", "list", "list_installed"], "description": "Action to perform"},
    "skill_ref": {"type": "string", "description": "Skill reference (owner/name) for install/remove"},
    "query": {"type": "string", "description": "Search query for search action"}
  },
  "required": ["action"]
}`

	readFileParams = `{
  "type": "object",
  "properties": {
    "skill": {"type": "string", "description": "Name of the installed skill"},
    "path": {"type": "string", "description": "Relative path to the file within the skill directory"}
  },
  "required": ["skill", "path"]
}`

	runScriptParams = `{
  "type": "object",
  "properties": {
    "skill": {"type": "string", "description": "Name of the installed skill"},
    "script": {"type": "string", "description": "Relative path to the script within the skill directory"},
    "args": {"type": "array", "items": {"type": "string"}, "description": "Arguments to pass to the script (optional)"},
    "stdin": {"type": "string", "description": "Input to pass to the script via stdin (optional)"}
  },
  "required": ["skill", "script"]
}`

	invokeParams = `{
  "type": "object",
  "properties": {
    "arguments": {"type": "string", "description": "Arguments to pass to the skill (optional)"}
  }
}`
)

// Schema returns the host-facing tool listing: the three management tools
// (the marketplace entry also declares the lifecycle hooks) followed by one
// invocation entry per installed skill.
func Schema(ctx context.Context, h *skillhost.Host) []SchemaTool {
	tools := []SchemaTool{
		{
			Name:        "skill_marketplace",
			Description: "Install, remove, search, or list Agent Skills from the marketplace",
			Parameters:  json.RawMessage(marketplaceParams),
			Hooks:       []string{"post_system_prompt", "pre_tool", "on_start"},
		},
		{
			Name:        "read_skill_file",
			Description: "Read a file from an installed skill's directory (scripts, references, etc.)",
			Parameters:  json.RawMessage(readFileParams),
		},
		{
			Name:        "run_skill_script",
			Description: "Execute a script from an installed skill's directory (e.g., scripts/extract.py)",
			Parameters:  json.RawMessage(runScriptParams),
		},
	}
	for _, sk := range h.ListSkills(ctx) {
		tools = append(tools, SchemaTool{
			Name:        allowlist.InvokePrefix + sk.Name,
			Description: sk.Description,
			Parameters:  json.RawMessage(invokeParams),
		})
	}
	return tools
}

// SchemaJSON renders the tool listing as a single-line JSON array.
func SchemaJSON(ctx context.Context, h *skillhost.Host) ([]byte, error) {
	return json.Marshal(Schema(ctx, h))
}
