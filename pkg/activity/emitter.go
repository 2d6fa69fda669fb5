package activity

import (
	"context"
	"strings"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "querystate"

// Config controls emission. ActorID and TenantID identify who owns the store
// and are stamped on events that do not carry their own.
type Config struct {
	Enabled  bool
	Channel  string
	ActorID  string
	TenantID string
}

// Emitter announces store transitions to a fixed set of hooks.
type Emitter struct {
	hooks    Hooks
	enabled  bool
	channel  string
	actorID  string
	tenantID string
}

func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	var kept Hooks
	for _, hook := range hooks {
		if hook != nil {
			kept = append(kept, hook)
		}
	}
	return &Emitter{
		hooks:    kept,
		enabled:  cfg.Enabled && len(kept) > 0,
		channel:  channel,
		actorID:  strings.TrimSpace(cfg.ActorID),
		tenantID: strings.TrimSpace(cfg.TenantID),
	}
}

// Enabled is false for a nil emitter, a disabled config or no hooks.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit fills the emitter defaults into event and notifies every hook.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.actorID
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = e.tenantID
	}
	return e.hooks.Notify(ctx, event)
}
