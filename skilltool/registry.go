package skilltool

import (
	"context"
	"errors"

	"github.com/flexigpt/llmtools-go"

	"github.com/agentplane/skillhost"
)

// NewSkillsRegistry creates an llmtools-go Registry and registers the
// management tools plus one invocation tool per installed skill.
func NewSkillsRegistry(
	ctx context.Context,
	h *skillhost.Host,
	opts ...llmtools.RegistryOption,
) (*llmtools.Registry, error) {
	if h == nil {
		return nil, errors.New("nil host")
	}
	r, err := llmtools.NewRegistry(opts...)
	if err != nil {
		return nil, err
	}
	if err := Register(r, h); err != nil {
		return nil, err
	}
	if err := RegisterInstalled(ctx, r, h); err != nil {
		return nil, err
	}
	return r, nil
}
