package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentplane/skillhost"
	"github.com/agentplane/skillhost/allowlist"
	"github.com/agentplane/skillhost/spec"
)

var callCmd = &cobra.Command{
	Use:   "call [tool]",
	Short: "Execute a tool call",
	Long: `Executes one tool call and prints its output to stdout. The tool name
comes from the argument or the SKILLHOST_TOOL environment variable; the tool
arguments are read from stdin as JSON. Failures are reported as output lines
prefixed with "Error:" so the calling host can surface them to the model.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHost()
		if err != nil {
			return err
		}
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read tool arguments: %w", err)
		}

		tool := ""
		if len(args) == 1 {
			tool = args[0]
		} else {
			tool = os.Getenv("SKILLHOST_TOOL")
		}

		fmt.Println(runToolCall(cmd.Context(), h, tool, raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
}

func runToolCall(ctx context.Context, h *skillhost.Host, tool string, raw []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		fields = nil
	}
	if tool == "" {
		tool = inferTool(fields)
		if tool == "" {
			return "Error: Cannot determine tool name. Pass it as an argument or set SKILLHOST_TOOL."
		}
	}

	switch {
	case tool == allowlist.ToolMarketplace:
		var args spec.MarketplaceArgs
		_ = json.Unmarshal(raw, &args)
		out, err := h.Marketplace(ctx, args)
		if err != nil {
			return "Error: " + err.Error()
		}
		return out

	case tool == allowlist.ToolReadFile:
		var args spec.ReadFileArgs
		_ = json.Unmarshal(raw, &args)
		content, err := h.ReadFile(ctx, args)
		if err != nil {
			return "Error: " + err.Error()
		}
		return content

	case tool == allowlist.ToolRunScript:
		var args spec.RunScriptArgs
		_ = json.Unmarshal(raw, &args)
		res, err := h.RunScript(ctx, args)
		if err != nil {
			return "Error: " + err.Error()
		}
		return res.Output

	case strings.HasPrefix(tool, allowlist.InvokePrefix):
		var args spec.InvokeArgs
		_ = json.Unmarshal(raw, &args)
		name := strings.TrimPrefix(tool, allowlist.InvokePrefix)
		out, err := h.Invoke(ctx, name, args)
		if err != nil {
			return fmt.Sprintf("Error: Skill '%s' not found or invalid", name)
		}
		return out

	default:
		return fmt.Sprintf("Error: Unknown tool '%s'", tool)
	}
}

// inferTool guesses the tool from the argument shape when the host did not
// pass a name. Mirrors the routing order: marketplace, run, read.
func inferTool(fields map[string]json.RawMessage) string {
	_, hasAction := fields["action"]
	_, hasSkill := fields["skill"]
	_, hasScript := fields["script"]
	_, hasPath := fields["path"]

	switch {
	case hasAction:
		return allowlist.ToolMarketplace
	case hasSkill && hasScript:
		return allowlist.ToolRunScript
	case hasSkill && hasPath:
		return allowlist.ToolReadFile
	default:
		return ""
	}
}
