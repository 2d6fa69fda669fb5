package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-querystate/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts query state transition events to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
// The transition ID is also recorded under "transition_id" since ObjectID may
// hold a version fallback.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	record := usertypes.ActivityRecord{
		ActorID:    parseUUID(normalized.ActorID),
		UserID:     parseUUID(normalized.UserID),
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       copyData(normalized.Metadata),
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}
	if normalized.ObjectType == activity.ObjectTypeTransition {
		if record.Data == nil {
			record.Data = map[string]any{}
		}
		record.Data["transition_id"] = normalized.ObjectID
	}

	return h.Sink.Log(ctx, record)
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// copyData clones metadata, copying key lists so sinks may retain them.
func copyData(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		if keys, ok := value.([]string); ok {
			value = append([]string{}, keys...)
		}
		dst[key] = value
	}
	return dst
}
