package activity

import (
	"strconv"
	"strings"
	"time"
)

const (
	VerbTransitionPushed   = "querystate.pushed"
	VerbTransitionReplaced = "querystate.replaced"

	// ObjectTypeTransition is the object type of every transition event.
	ObjectTypeTransition = "querystate"
)

// TransitionEventInput describes one committed store transition.
type TransitionEventInput struct {
	ActorID      string
	UserID       string
	TenantID     string
	Channel      string
	TransitionID string
	Version      uint64
	// Pushed is true when the transition created a new history entry.
	Pushed     bool
	Keys       []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildTransitionEvent constructs the event announced after a store commits a
// transition. Keys and metadata are copied.
func BuildTransitionEvent(input TransitionEventInput) Event {
	verb := VerbTransitionReplaced
	if input.Pushed {
		verb = VerbTransitionPushed
	}

	metadata := cloneMap(input.Metadata)
	if input.Version != 0 {
		metadata = ensureMetadata(metadata)
		metadata["version"] = strconv.FormatUint(input.Version, 10)
	}
	if len(input.Keys) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["keys"] = append([]string{}, input.Keys...)
	}

	objectID := strings.TrimSpace(input.TransitionID)
	if objectID == "" && input.Version != 0 {
		objectID = "v" + strconv.FormatUint(input.Version, 10)
	}
	if objectID == "" {
		objectID = ObjectTypeTransition
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeTransition,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
