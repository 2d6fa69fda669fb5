package state

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-querystate/codec"
)

var ErrVersionMismatch = errors.New("state: version mismatch")

// History selects whether a committed write creates a new navigable entry.
type History string

const (
	HistoryReplace History = "replace"
	HistoryPush    History = "push"
)

// WriteOptions is the resolved form of the options accepted by Set.
type WriteOptions struct {
	History History
	// Batch stages the write so it coalesces with other batched writes into
	// one transition.
	Batch bool
	// IfVersion rejects the write with ErrVersionMismatch unless the current
	// transition has this version. Zero disables the check.
	IfVersion uint64
}

type WriteOption func(*WriteOptions)

// WithHistory sets the history mode. Unknown modes fall back to replace.
func WithHistory(h History) WriteOption {
	return func(o *WriteOptions) {
		o.History = h
	}
}

// Push records the write as a new history entry.
func Push() WriteOption {
	return WithHistory(HistoryPush)
}

// Replace overwrites the current history entry. This is the default.
func Replace() WriteOption {
	return WithHistory(HistoryReplace)
}

// Batch stages the write until the next Flush or unbatched Set.
func Batch() WriteOption {
	return func(o *WriteOptions) {
		o.Batch = true
	}
}

// IfVersion makes the write conditional on the current version.
func IfVersion(version uint64) WriteOption {
	return func(o *WriteOptions) {
		o.IfVersion = version
	}
}

// ApplyWriteOptions resolves opts over the defaults.
func ApplyWriteOptions(opts ...WriteOption) WriteOptions {
	o := WriteOptions{History: HistoryReplace}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.History != HistoryPush {
		o.History = HistoryReplace
	}
	return o
}

// Reader decodes one consistent snapshot for schema.
type Reader interface {
	Get(ctx context.Context, schema codec.Schema) (codec.Snapshot, error)
}

// Writer encodes patch through schema and persists it as one transition.
type Writer interface {
	Set(ctx context.Context, schema codec.Schema, patch codec.Snapshot, opts ...WriteOption) error
}

// Store is the contract query state derivation depends on.
type Store interface {
	Reader
	Writer
}

// Meta describes the committed transition a store currently points at.
// Pushes counts every pushed transition the store has committed and is not
// rewound by Back.
type Meta struct {
	TransitionID string    `json:"transition_id,omitempty"`
	Version      uint64    `json:"version"`
	History      History   `json:"history,omitempty"`
	Keys         []string  `json:"keys,omitempty"`
	Pushes       uint64    `json:"pushes"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}
