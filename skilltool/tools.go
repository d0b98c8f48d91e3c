// Package skilltool exposes the skills host operations as llmtools-go tool
// descriptors and registrations: the three fixed management tools plus one
// invocation tool per installed skill.
package skilltool

import (
	"context"
	"errors"
	"fmt"

	"github.com/flexigpt/llmtools-go"
	llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"
	"github.com/google/uuid"

	"github.com/agentplane/skillhost"
	"github.com/agentplane/skillhost/spec"
)

const (
	FuncIDMarketplace llmtoolsgoSpec.FuncID = "github.com/agentplane/skillhost/skilltool.Marketplace"
	FuncIDReadFile    llmtoolsgoSpec.FuncID = "github.com/agentplane/skillhost/skilltool.ReadFile"
	FuncIDRunScript   llmtoolsgoSpec.FuncID = "github.com/agentplane/skillhost/skilltool.RunScript"
	FuncIDInvoke      llmtoolsgoSpec.FuncID = "github.com/agentplane/skillhost/skilltool.Invoke"
)

// Register registers the three fixed management tools into an existing
// llmtools-go Registry. Host binding is done by closure.
func Register(r *llmtools.Registry, h *skillhost.Host) error {
	if r == nil {
		return errors.New("nil registry")
	}
	if h == nil {
		return errors.New("nil host")
	}

	// "skill_marketplace" -> typed -> text output (JSON).
	if err := llmtools.RegisterTypedAsTextTool[spec.MarketplaceArgs, spec.MarketplaceResult](
		r,
		MarketplaceTool(),
		func(ctx context.Context, args spec.MarketplaceArgs) (spec.MarketplaceResult, error) {
			out, err := h.Marketplace(ctx, args)
			if err != nil {
				return spec.MarketplaceResult{}, err
			}
			return spec.MarketplaceResult{Output: out}, nil
		},
	); err != nil {
		return err
	}

	// "read_skill_file" -> typed -> text output (JSON).
	if err := llmtools.RegisterTypedAsTextTool[spec.ReadFileArgs, spec.ReadFileResult](
		r,
		ReadFileTool(),
		func(ctx context.Context, args spec.ReadFileArgs) (spec.ReadFileResult, error) {
			content, err := h.ReadFile(ctx, args)
			if err != nil {
				return spec.ReadFileResult{}, err
			}
			return spec.ReadFileResult{Content: content}, nil
		},
	); err != nil {
		return err
	}

	// "run_skill_script" -> typed -> text output (JSON).
	if err := llmtools.RegisterTypedAsTextTool[spec.RunScriptArgs, spec.RunScriptResult](
		r,
		RunScriptTool(),
		func(ctx context.Context, args spec.RunScriptArgs) (spec.RunScriptResult, error) {
			return h.RunScript(ctx, args)
		},
	); err != nil {
		return err
	}

	return nil
}

// RegisterInstalled registers one "skill_<name>" invocation tool per skill
// currently present in the host's catalog.
func RegisterInstalled(ctx context.Context, r *llmtools.Registry, h *skillhost.Host) error {
	if r == nil {
		return errors.New("nil registry")
	}
	if h == nil {
		return errors.New("nil host")
	}
	for _, sk := range h.ListSkills(ctx) {
		name := sk.Name
		err := llmtools.RegisterTypedAsTextTool[spec.InvokeArgs, spec.InvokeResult](
			r,
			InvokeTool(sk),
			func(ctx context.Context, args spec.InvokeArgs) (spec.InvokeResult, error) {
				out, err := h.Invoke(ctx, name, args)
				if err != nil {
					return spec.InvokeResult{}, err
				}
				return spec.InvokeResult{Output: out}, nil
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ManagementTools returns the three fixed tool descriptors.
func ManagementTools() []llmtoolsgoSpec.Tool {
	return []llmtoolsgoSpec.Tool{
		MarketplaceTool(),
		ReadFileTool(),
		RunScriptTool(),
	}
}

func MarketplaceTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c1b40-6a8e-70d5-b2c4-1f5a83e90101",
		Slug:          "skill_marketplace",
		Version:       "v1.0.0",
		DisplayName:   "Skill Marketplace",
		Description:   "Install, remove, search, or list Agent Skills from the marketplace",
		Tags:          []string{"skills"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "action":{"type":"string","enum":["install","remove","search","list","list_installed"],"description":"Action to perform"},
		    "skill_ref":{"type":"string","description":"Skill reference (owner/name) for install/remove"},
		    "query":{"type":"string","description":"Search query for search action"}
		  },
		  "required":["action"],
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDMarketplace},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}

func ReadFileTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c1b40-6a8e-70d5-b2c4-1f5a83e90102",
		Slug:          "read_skill_file",
		Version:       "v1.0.0",
		DisplayName:   "Read Skill File",
		Description:   "Read a file from an installed skill's directory (scripts, references, etc.)",
		Tags:          []string{"skills", "fs", "read"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "skill":{"type":"string","description":"Name of the installed skill"},
		    "path":{"type":"string","description":"Relative path to the file within the skill directory"}
		  },
		  "required":["skill","path"],
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDReadFile},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}

func RunScriptTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c1b40-6a8e-70d5-b2c4-1f5a83e90103",
		Slug:          "run_skill_script",
		Version:       "v1.0.0",
		DisplayName:   "Run Skill Script",
		Description:   "Execute a script from an installed skill's directory (e.g., scripts/extract.py)",
		Tags:          []string{"skills", "shell", "exec"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "skill":{"type":"string","description":"Name of the installed skill"},
		    "script":{"type":"string","description":"Relative path to the script within the skill directory"},
		    "args":{"type":"array","items":{"type":"string"},"description":"Arguments to pass to the script (optional)"},
		    "stdin":{"type":"string","description":"Input to pass to the script via stdin (optional)"}
		  },
		  "required":["skill","script"],
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDRunScript},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}

// invokeFuncID derives a distinct FuncID per skill. Registries reject
// duplicate FuncIDs, so every invocation closure needs its own.
func invokeFuncID(name string) llmtoolsgoSpec.FuncID {
	return llmtoolsgoSpec.FuncID(string(FuncIDInvoke) + "." + name)
}

// InvokeTool builds the per-skill invocation descriptor. The tool ID and
// FuncID are derived deterministically from the skill name so repeated
// listings agree.
func InvokeTool(sk spec.Skill) llmtoolsgoSpec.Tool {
	slug := "skill_" + sk.Name
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            uuid.NewSHA1(uuid.NameSpaceURL, []byte("skillhost/"+slug)).String(),
		Slug:          slug,
		Version:       "v1.0.0",
		DisplayName:   fmt.Sprintf("Skill: %s", sk.Name),
		Description:   sk.Description,
		Tags:          []string{"skills"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "arguments":{"type":"string","description":"Arguments to pass to the skill (optional)"}
		  },
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: invokeFuncID(sk.Name)},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
