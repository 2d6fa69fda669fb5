// Package logging adapts go.uber.org/zap to the querystate logging hooks.
package logging

import (
	"context"

	"go.uber.org/zap"

	qstate "github.com/goliatone/go-querystate"
	"github.com/goliatone/go-querystate/pkg/activity"
)

// Zap logs derivations and state transitions through a zap.Logger.
type Zap struct {
	logger *zap.Logger
}

var (
	_ qstate.Logger         = (*Zap)(nil)
	_ activity.ActivityHook = (*Zap)(nil)
)

// NewZap wraps logger. A nil logger discards everything.
func NewZap(logger *zap.Logger) *Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zap{logger: logger.Named("querystate")}
}

// LogDerivation writes successful derivations at debug level and failures at
// warn level.
func (z *Zap) LogDerivation(event qstate.DerivationEvent) {
	fields := []zap.Field{
		zap.Strings("keys", event.Keys),
		zap.Int("filters", event.Filters),
		zap.Duration("duration", event.Duration),
	}
	if len(event.Sort) > 0 {
		fields = append(fields, zap.Strings("sort", event.Sort))
	}
	if event.PageSize > 0 {
		fields = append(fields, zap.Int("page", event.Page), zap.Int("page_size", event.PageSize))
	}
	if event.Dialect != "" {
		fields = append(fields, zap.String("dialect", string(event.Dialect)))
	}
	if event.Err != nil {
		z.logger.Warn("derivation failed", append(fields, zap.Error(event.Err))...)
		return
	}
	z.logger.Debug("derived query state", fields...)
}

// Notify logs a committed transition at info level.
func (z *Zap) Notify(_ context.Context, event activity.Event) error {
	fields := []zap.Field{
		zap.String("verb", event.Verb),
		zap.String("object_id", event.ObjectID),
		zap.String("channel", event.Channel),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if v, ok := event.Metadata["version"]; ok {
		fields = append(fields, zap.Any("version", v))
	}
	if keys, ok := event.Metadata["keys"].([]string); ok {
		fields = append(fields, zap.Strings("keys", keys))
	}
	z.logger.Info("query state transition", fields...)
	return nil
}
