// Package hook implements the host's hook envelope: on_start,
// post_system_prompt, and pre_tool. Handlers take the raw JSON payload and
// return the raw JSON response, leaving transport to the caller.
package hook

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/agentplane/skillhost"
	"github.com/agentplane/skillhost/allowlist"
)

// Hook names understood by Dispatch.
const (
	OnStartHook          = "on_start"
	PostSystemPromptHook = "post_system_prompt"
	PreToolHook          = "pre_tool"
)

// PreToolData is the pre_tool payload.
type PreToolData struct {
	ToolName  string          `json:"tool_name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// BlockResponse blocks the caller's requested tool.
type BlockResponse struct {
	Block   bool   `json:"block"`
	Message string `json:"message"`
}

// InjectResponse injects content into the system prompt.
type InjectResponse struct {
	Inject string `json:"inject"`
}

var emptyResponse = []byte("{}")

// OnStart clears any activation left over from a prior session.
func OnStart(ctx context.Context, h *skillhost.Host) ([]byte, error) {
	if err := h.ClearActive(ctx); err != nil {
		return nil, err
	}
	return emptyResponse, nil
}

// PostSystemPrompt injects the available-skills listing, or nothing when no
// skills are installed.
func PostSystemPrompt(ctx context.Context, h *skillhost.Host) ([]byte, error) {
	addendum := h.SystemPrompt(ctx)
	if addendum == "" {
		return emptyResponse, nil
	}
	return json.Marshal(InjectResponse{Inject: addendum})
}

// PreTool observes every tool call before it runs. A skill-invocation tool
// activates that skill; every other tool is checked against the active
// skill's allow-list and blocked on denial.
func PreTool(ctx context.Context, h *skillhost.Host, payload []byte) ([]byte, error) {
	var data PreToolData
	// A malformed payload degrades to an empty tool name, which no policy
	// can match; enforcement then falls through to allow.
	_ = json.Unmarshal(payload, &data)

	tool := data.ToolName
	if strings.HasPrefix(tool, allowlist.InvokePrefix) && tool != allowlist.ToolMarketplace {
		name := strings.TrimPrefix(tool, allowlist.InvokePrefix)
		if err := h.Activate(ctx, name); err == nil {
			return emptyResponse, nil
		}
		// Unknown skill: fall through to enforcement; the invocation tool
		// itself is exempt, so this stays permissive.
	}

	if d := h.CheckTool(ctx, tool); !d.Allowed {
		return json.Marshal(BlockResponse{Block: true, Message: d.Message})
	}
	return emptyResponse, nil
}

// Dispatch routes a named hook to its handler. Unknown hooks return the
// empty response rather than an error, so new host hooks cannot break older
// extensions.
func Dispatch(ctx context.Context, h *skillhost.Host, name string, payload []byte) ([]byte, error) {
	switch name {
	case OnStartHook:
		return OnStart(ctx, h)
	case PostSystemPromptHook:
		return PostSystemPrompt(ctx, h)
	case PreToolHook:
		return PreTool(ctx, h, payload)
	default:
		return emptyResponse, nil
	}
}
