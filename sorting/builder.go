package sorting

import "sync"

// Builder owns the sort codec lifecycle. The first call to Codec builds and
// freezes it. Afterwards Reconfigure rebuilds only when the frozen
// configuration is Dynamic and the new one differs.
//
// A Builder is safe for concurrent use. The codecs it returns are immutable
// and may be shared freely.
type Builder struct {
	mu         sync.RWMutex
	cfg        Config
	codec      *Codec
	generation int
}

func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg.withDefaults()}
}

// Codec returns the current codec, building it on first use.
func (b *Builder) Codec() *Codec {
	b.mu.RLock()
	c := b.codec
	b.mu.RUnlock()
	if c != nil {
		return c
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.codec == nil {
		b.codec = NewCodec(b.cfg)
		b.generation++
	}
	return b.codec
}

// Frozen reports whether a codec has been built.
func (b *Builder) Frozen() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.codec != nil
}

// Generation counts how many codecs have been built.
func (b *Builder) Generation() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.generation
}

// Reconfigure applies cfg and reports whether the effective configuration
// changed. Before the first build any configuration is accepted. Once frozen,
// changes are ignored unless the frozen configuration is Dynamic.
func (b *Builder) Reconfigure(cfg Config) bool {
	cfg = cfg.withDefaults()
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := !b.cfg.Equal(cfg) || b.cfg.Dynamic != cfg.Dynamic
	if !changed {
		return false
	}
	if b.codec == nil {
		b.cfg = cfg
		return true
	}
	if !b.cfg.Dynamic {
		return false
	}
	b.cfg = cfg
	b.codec = NewCodec(cfg)
	b.generation++
	return true
}
