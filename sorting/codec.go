package sorting

import (
	"slices"
	"strings"

	"github.com/goliatone/go-querystate/codec"
)

const (
	DefaultKey       = "sort"
	DefaultDelimiter = "_"
)

// Config describes how sort entries are stored and validated.
type Config struct {
	// Key is the store key. Defaults to "sort".
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
	// Allowed restricts accepted entries. Empty accepts any field.
	Allowed []string `json:"allowed,omitempty" yaml:"allowed,omitempty"`
	// DefaultSort is returned when the key is absent.
	DefaultSort []Entry `json:"default,omitempty" yaml:"default,omitempty"`
	// ShowPlus keeps the "+" prefix of ascending entries when serialising.
	ShowPlus bool `json:"showPlus,omitempty" yaml:"showPlus,omitempty"`
	// Delimiter joins entries into one occurrence. Defaults to "_".
	Delimiter string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	// Repeated stores one occurrence per entry and ignores Delimiter.
	Repeated bool `json:"repeated,omitempty" yaml:"repeated,omitempty"`
	// Dynamic lets Builder.Reconfigure rebuild the codec after first use.
	Dynamic bool `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
}

// DefaultConfig returns the configuration used for zero fields.
func DefaultConfig() Config {
	return Config{Key: DefaultKey, Delimiter: DefaultDelimiter}
}

func (c Config) withDefaults() Config {
	out := c
	if strings.TrimSpace(out.Key) == "" {
		out.Key = DefaultKey
	}
	if out.Delimiter == "" {
		out.Delimiter = DefaultDelimiter
	}
	out.Allowed = slices.Clone(c.Allowed)
	out.DefaultSort = slices.Clone(c.DefaultSort)
	return out
}

// Equal reports whether c and other produce the same codec.
func (c Config) Equal(other Config) bool {
	a, b := c.withDefaults(), other.withDefaults()
	return a.Key == b.Key &&
		a.ShowPlus == b.ShowPlus &&
		a.Delimiter == b.Delimiter &&
		a.Repeated == b.Repeated &&
		slices.Equal(a.Allowed, b.Allowed) &&
		slices.Equal(a.DefaultSort, b.DefaultSort)
}

type entryCodec struct {
	allowed  map[string]struct{}
	showPlus bool
}

func (c entryCodec) Parse(raw codec.Raw) codec.Value[Entry] {
	s, ok := raw.First()
	if !ok {
		return codec.Missing[Entry]()
	}
	entry, ok := Normalize(s)
	if !ok {
		return codec.Missing[Entry]()
	}
	if c.allowed != nil {
		if _, ok := c.allowed[string(entry)]; !ok {
			return codec.Missing[Entry]()
		}
	}
	return codec.Some(entry)
}

func (c entryCodec) Serialize(v codec.Value[Entry]) codec.Raw {
	entry, ok := v.Get()
	if !ok {
		return codec.Raw{}
	}
	s := string(entry)
	if !c.showPlus {
		s = strings.TrimPrefix(s, ascPrefix)
	}
	return codec.RawOf(s)
}

// Codec reads and writes a list of sort entries. It is immutable once built.
type Codec struct {
	cfg  Config
	list codec.Codec[[]Entry]
}

var _ codec.Codec[[]Entry] = (*Codec)(nil)

// NewCodec builds a codec for cfg.
func NewCodec(cfg Config) *Codec {
	cfg = cfg.withDefaults()
	elem := entryCodec{showPlus: cfg.ShowPlus}
	if len(cfg.Allowed) > 0 {
		elem.allowed = Expand(cfg.Allowed)
	}

	var list codec.Codec[[]Entry]
	if cfg.Repeated {
		list = codec.Array[Entry](elem)
	} else {
		list = codec.Delimited[Entry](elem, cfg.Delimiter)
	}
	if len(cfg.DefaultSort) > 0 {
		list = codec.WithDefault(list, slices.Clone(cfg.DefaultSort))
	}
	return &Codec{cfg: cfg, list: list}
}

// Config returns a copy of the configuration the codec was built from.
func (c *Codec) Config() Config {
	return c.cfg.withDefaults()
}

// Key is the store key the codec is bound to.
func (c *Codec) Key() string {
	return c.cfg.Key
}

func (c *Codec) Parse(raw codec.Raw) codec.Value[[]Entry] {
	return c.list.Parse(raw)
}

func (c *Codec) Serialize(v codec.Value[[]Entry]) codec.Raw {
	return c.list.Serialize(v)
}

func (c *Codec) Describe() codec.Descriptor {
	d := codec.Describe(c.list)
	d.Type = "sort"
	if len(c.cfg.Allowed) > 0 {
		d.Enum = sortedKeys(Expand(c.cfg.Allowed))
	}
	return d
}

// Schema binds the codec to its key.
func (c *Codec) Schema() codec.Schema {
	return codec.Schema{c.cfg.Key: codec.Erase[[]Entry](c)}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}
