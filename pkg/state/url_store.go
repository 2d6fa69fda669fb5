package state

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goliatone/go-querystate/codec"
)

// DefaultNullToken marks an explicitly cleared key in a query string. It is
// percent-encoded as %00 on the wire.
const DefaultNullToken = "\x00"

// WithNullToken overrides the query value used to persist explicit nulls.
func WithNullToken(token string) Option {
	return func(cfg *storeConfig) {
		if token != "" {
			cfg.nullToken = token
		}
	}
}

// URLStore keeps query state in the query string of a URL. Arrays are written
// as repeated keys. Each committed push adds a URL to the history.
type URLStore struct {
	base      url.URL
	nullToken string
	log       *journal
}

var _ Store = (*URLStore)(nil)

// NewURLStore seeds the store from u's query. u is copied.
func NewURLStore(u *url.URL, opts ...Option) *URLStore {
	cfg := applyOptions(opts)
	var base url.URL
	if u != nil {
		base = *u
	}
	initial := valuesToRaw(base.Query(), cfg.nullToken)
	base.RawQuery = ""
	base.ForceQuery = false
	return &URLStore{
		base:      base,
		nullToken: cfg.nullToken,
		log:       newJournal(initial, cfg),
	}
}

// ParseURL builds a URLStore from a raw URL string.
func ParseURL(rawURL string, opts ...Option) (*URLStore, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("state: parse url: %w", err)
	}
	return NewURLStore(u, opts...), nil
}

func (s *URLStore) Get(_ context.Context, schema codec.Schema) (codec.Snapshot, error) {
	return s.log.get(schema), nil
}

func (s *URLStore) Set(ctx context.Context, schema codec.Schema, patch codec.Snapshot, opts ...WriteOption) error {
	return s.log.set(ctx, schema, patch, opts)
}

func (s *URLStore) Flush(ctx context.Context) bool {
	return s.log.flush(ctx)
}

func (s *URLStore) Back() bool {
	return s.log.back()
}

func (s *URLStore) Meta() Meta {
	return s.log.meta()
}

// URL renders the current transition.
func (s *URLStore) URL() *url.URL {
	u := s.base
	u.RawQuery = rawToValues(s.log.snapshotValues(), s.nullToken).Encode()
	return &u
}

// History renders every history entry, oldest first.
func (s *URLStore) History() []string {
	s.log.mu.RLock()
	defer s.log.mu.RUnlock()
	out := make([]string, 0, len(s.log.entries))
	for _, e := range s.log.entries {
		u := s.base
		u.RawQuery = rawToValues(e.values, s.nullToken).Encode()
		out = append(out, u.String())
	}
	return out
}

func valuesToRaw(values url.Values, nullToken string) map[string]codec.Raw {
	out := make(map[string]codec.Raw, len(values))
	for key, occurrences := range values {
		if len(occurrences) == 1 && occurrences[0] == nullToken {
			out[key] = codec.Raw{Cleared: true}
			continue
		}
		out[key] = codec.RawOf(occurrences...)
	}
	return out
}

func rawToValues(raw map[string]codec.Raw, nullToken string) url.Values {
	out := make(url.Values, len(raw))
	for key, r := range raw {
		if r.Cleared {
			out[key] = []string{nullToken}
			continue
		}
		if len(r.Values) > 0 {
			out[key] = append([]string(nil), r.Values...)
		}
	}
	return out
}
