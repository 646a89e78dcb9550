package command

import (
	"time"

	"github.com/Senkoslav/discord-bot/pkg/ratelimit"
)

// Middleware wraps a Command with cross-cutting behavior.
type Middleware func(Command) Command

// Chain applies middlewares to cmd, innermost first.
func Chain(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

type wrapped struct {
	Command
	run func(ctx *Context) error
}

func (w *wrapped) Run(ctx *Context) error { return w.run(ctx) }

// Component forwards to the wrapped command when it handles components.
func (w *wrapped) Component(ctx *Context) error {
	if h, ok := w.Command.(ComponentHandler); ok {
		return h.Component(ctx)
	}
	return nil
}

// WithGuildOnly rejects invocations outside a guild.
func WithGuildOnly() Middleware {
	return func(next Command) Command {
		return &wrapped{Command: next, run: func(ctx *Context) error {
			if ctx.GuildID() == "" {
				return ctx.ReplyEphemeral("This command only works in a server.")
			}
			return next.Run(ctx)
		}}
	}
}

// WithRateLimit throttles invocations per user.
func WithRateLimit(lim *ratelimit.PerUser) Middleware {
	return func(next Command) Command {
		return &wrapped{Command: next, run: func(ctx *Context) error {
			if u := ctx.User(); u != nil && !lim.Allow(u.ID) {
				return ctx.ReplyEphemeral("You're sending commands too fast. Slow down a little.")
			}
			return next.Run(ctx)
		}}
	}
}

// WithCommandLogger logs every invocation with its outcome and duration.
func WithCommandLogger() Middleware {
	return func(next Command) Command {
		return &wrapped{Command: next, run: func(ctx *Context) error {
			start := time.Now()
			err := next.Run(ctx)

			evt := ctx.Log.Info()
			if err != nil {
				evt = ctx.Log.Error().Err(err)
			}
			var userID string
			if u := ctx.User(); u != nil {
				userID = u.ID
			}
			evt.Str("command", next.Name()).
				Str("guild_id", ctx.GuildID()).
				Str("user_id", userID).
				Dur("took", time.Since(start)).
				Msg("command handled")
			return err
		}}
	}
}
