package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name string
	runs *[]string
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return "stub" }
func (s *stubCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: s.name}
}
func (s *stubCommand) Run(ctx *Context) error {
	*s.runs = append(*s.runs, s.name)
	return nil
}

func TestRegistryGetAndAll(t *testing.T) {
	var runs []string
	r := NewRegistry()
	r.Register(&stubCommand{name: "zeta", runs: &runs})
	r.Register(&stubCommand{name: "alpha", runs: &runs})

	cmd, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", cmd.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name())
	assert.Equal(t, "zeta", all[1].Name())
}

func TestRegisterOverwritesSameName(t *testing.T) {
	var runs []string
	r := NewRegistry()
	r.Register(&stubCommand{name: "play", runs: &runs})
	r.Register(&stubCommand{name: "play", runs: &runs})
	assert.Len(t, r.All(), 1)
}

func TestChainAppliesMiddlewareInOrder(t *testing.T) {
	var order []string
	mw := func(label string) Middleware {
		return func(next Command) Command {
			return &wrapped{Command: next, run: func(ctx *Context) error {
				order = append(order, label)
				return next.Run(ctx)
			}}
		}
	}

	var runs []string
	cmd := Chain(&stubCommand{name: "play", runs: &runs}, mw("inner"), mw("outer"))

	require.NoError(t, cmd.Run(&Context{}))
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, []string{"play"}, runs)

	// The wrapped command still exposes the slash definition.
	require.NotNil(t, cmd.SlashDefinition())
	assert.Equal(t, "play", cmd.SlashDefinition().Name)
}
