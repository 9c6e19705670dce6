package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/instance"
)

// DefaultCacheSize bounds the number of compiled patterns an Engine keeps.
const DefaultCacheSize = 512

// Engine answers pattern queries, caching each compiled pattern per
// (struct, pattern, kinds). It is safe for concurrent use.
type Engine struct {
	cache  *lru.Cache[cacheKey, *compiled]
	logger *slog.Logger

	compiles atomic.Int64
	hits     atomic.Int64
	magic    atomic.Int64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithCacheSize sets the pattern cache capacity.
func WithCacheSize(n int) EngineOption {
	return func(e *Engine) error {
		c, err := lru.New[cacheKey, *compiled](n)
		if err != nil {
			return fmt.Errorf("pattern cache: %w", err)
		}

		e.cache = c

		return nil
	}
}

// WithEngineLogger sets the logger used for compile traces.
func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) error {
		if l != nil {
			e.logger = l
		}

		return nil
	}
}

// NewEngine builds an Engine.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	e := &Engine{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	for _, opt := range append([]EngineOption{WithCacheSize(DefaultCacheSize)}, opts...) {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Stats counts pattern compilations and cache hits.
type Stats struct {
	Compiles int64
	Hits     int64
	// Magic counts list positions selected by numeric pattern segments.
	Magic int64
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{Compiles: e.compiles.Load(), Hits: e.hits.Load(), Magic: e.magic.Load()}
}

type cacheKey struct {
	desc    *descriptor.Struct
	pattern string
	kinds   string
}

type compiled struct {
	matches []compiledMatch
}

type compiledMatch struct {
	entry int
	// segs replaces list wildcards with the numeric or glob pattern
	// segment that selected them.
	segs []string
}

// ValuesMatching returns the validated values whose paths match pattern,
// keyed by concrete canonical path. Segments may use path.Match globs; a
// numeric segment selects one list position. No kinds considers every leaf.
func (e *Engine) ValuesMatching(inst *instance.Instance, pattern string, kinds ...descriptor.FieldKind) (map[string]any, error) {
	c, err := e.compile(inst.Registry(), inst.Descriptor(), pattern, kinds...)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)

	for _, m := range c.matches {
		if err := expand(inst, m.segs, nil, out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// MatchingPaths returns the index paths a pattern selects for desc.
func (e *Engine) MatchingPaths(structs StructResolver, desc *descriptor.Struct, pattern string, kinds ...descriptor.FieldKind) ([]string, error) {
	c, err := e.compile(structs, desc, pattern, kinds...)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(c.matches))
	for i, m := range c.matches {
		out[i] = Canonical(m.segs)
	}

	return out, nil
}

// compile returns the cached compilation of pattern against desc,
// compiling it on a miss. Concurrent misses keep the first stored result.
func (e *Engine) compile(structs StructResolver, desc *descriptor.Struct, pattern string, kinds ...descriptor.FieldKind) (*compiled, error) {
	key := cacheKey{desc: desc, pattern: pattern, kinds: kindsKey(kinds)}

	if c, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		return c, nil
	}

	idx, err := Flatten(structs, desc)
	if err != nil {
		return nil, err
	}

	c, magic, err := compilePattern(idx, pattern, kinds)
	if err != nil {
		return nil, err
	}

	e.compiles.Add(1)
	e.magic.Add(int64(magic))
	e.logger.Debug("compiled path pattern", "struct", desc.Name, "pattern", pattern, "matches", len(c.matches), "magic", magic)

	if prev, ok, _ := e.cache.PeekOrAdd(key, c); ok {
		return prev, nil
	}

	return c, nil
}

func compilePattern(idx *Index, pattern string, kinds []descriptor.FieldKind) (*compiled, int, error) {
	pat, err := ParsePath(pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errdefs.ErrUnsupportedPattern, err)
	}

	c := &compiled{}
	magic := 0

	it := idx.Select(kinds...).Iterator()
	for it.HasNext() {
		ord := int(it.Next())
		e := idx.Entries[ord]

		if len(e.Segments) != len(pat) {
			continue
		}

		segs := slices.Clone(e.Segments)
		hit := true
		found := 0

		for i, p := range pat {
			ok, isMagic, err := matchSegment(p, e.Segments[i])
			if err != nil {
				if errors.Is(err, path.ErrBadPattern) {
					return nil, 0, fmt.Errorf("%w: %q: bad segment %q", errdefs.ErrUnsupportedPattern, pattern, p)
				}

				return nil, 0, err
			}

			if !ok {
				hit = false
				break
			}

			if isMagic {
				found++
			}

			if e.Segments[i] == Wildcard {
				segs[i] = p
			}
		}

		if hit {
			c.matches = append(c.matches, compiledMatch{entry: ord, segs: segs})
			magic += found
		}
	}

	return c, magic, nil
}

func kindsKey(kinds []descriptor.FieldKind) string {
	if len(kinds) == 0 {
		return ""
	}

	s := slices.Clone(kinds)
	slices.Sort(s)
	s = slices.Compact(s)

	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = strconv.Itoa(int(k))
	}

	return strings.Join(parts, ",")
}
