package engine

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// Source is the file capability behind [file], [all] and [library].
// Paths are slash separated and relative to the source root. ListFiles
// returns the files directly under dir, sorted by name.
type Source interface {
	ReadFile(ctx context.Context, name string) (string, error)
	ListFiles(ctx context.Context, dir string) ([]string, error)
}

// Engine is the entry point for generating text from templates. It keeps
// variables, registry entries, intercepts, macros and the random source
// between Parse calls.
// All methods are safe for concurrent use; calls are serialized.
type Engine struct {
	mu   sync.Mutex
	st   *State
	seed uint64
}

// New creates an Engine. The logger may be nil to discard log output, src
// may be nil when no file access is wanted, and a nil config means
// DefaultConfig. Zero limits in config are replaced by their defaults.
func New(logger *slog.Logger, src Source, config *Config) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := normalizeConfig(config)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	e := &Engine{
		seed: seed,
		st: &State{
			ctx:      context.Background(),
			env:      Env{},
			registry: &Registry{},
			macros:   make(map[string][]grammar.Node),
			rng:      rand.New(rand.NewPCG(seed, seed)),
			source:   src,
			config:   cfg,
			logger:   logger,
			handlers: makeHandlers(),
			active:   make(map[*Entry]bool),
		},
	}

	logger.Debug("Engine initialized", "seed", seed)
	return e
}

func normalizeConfig(config *Config) *Config {
	def := DefaultConfig()
	if config == nil {
		return def
	}
	cfg := *config
	if cfg.WeightMin == 0 && cfg.WeightMax == 0 {
		cfg.WeightMin, cfg.WeightMax = def.WeightMin, def.WeightMax
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MaxLoopCount <= 0 {
		cfg.MaxLoopCount = def.MaxLoopCount
	}
	return &cfg
}

func makeHandlers() map[string]Handler {
	return map[string]Handler{
		// Variables (from funcs_vars.go)
		"set":      setVar,
		"override": setVar,
		"get":      getVar,
		"exists":   existsVar,
		"inc":      incVar,
		"dec":      decVar,

		// Logic & Control (from funcs_logic.go)
		"switch":  switchCase,
		"case":    orphan,
		"default": orphan,
		"loop":    loop,
		"break":   breakLoop,
		"stop":    stop,
		"mute":    mute,

		// Math (from funcs_simple.go)
		"calc": calcExpr,
		"len":  length,

		// Randomness & Weighting (from funcs_random.go)
		"ran":     ran,
		"chance":  chance,
		"shuffle": shuffle,
		"join":    join,
		"range":   randomRange,
		"rw":      weight,
		"irw":     invertedWeight,

		// Registry (from funcs_registry.go)
		"register":  register,
		"intercept": intercept,
		"select":    selectEntry,
		"pass":      pass,

		// Macros (from funcs_macro.go)
		"def":  define,
		"call": call,

		// Files (from funcs_source.go)
		"file":    readFile,
		"all":     readAll,
		"library": library,
	}
}

// Parse evaluates text against the engine's state and returns the output
// with surrounding whitespace trimmed. It never fails.
func (e *Engine) Parse(text string) string {
	return e.ParseContext(context.Background(), text)
}

// ParseContext is Parse with a context that is handed to the Source.
// Evaluation itself is not interrupted by ctx.
func (e *Engine) ParseContext(ctx context.Context, text string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.st
	st.reset(ctx)
	out, _ := st.Eval(grammar.Parse(text))
	return strings.TrimSpace(out)
}

// LoadDirectory evaluates every file directly under dir, in name order, for
// its definitions. Output is discarded, as with [library].
func (e *Engine) LoadDirectory(ctx context.Context, dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.st.reset(ctx)
	e.st.loadDirectory(dir)
}

// Handle installs h for the directive name, replacing any built-in handler.
// The conditional chain directives if, elseif and else cannot be replaced.
func (e *Engine) Handle(name string, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.handlers[name] = h
}

// Var returns the value of a template variable.
func (e *Engine) Var(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.env.Lookup(name)
}

// SetVar assigns a template variable, as [set] would.
func (e *Engine) SetVar(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.env.Set(name, value)
}

// Seed returns the seed the random source was created with.
func (e *Engine) Seed() uint64 {
	return e.seed
}

// reset prepares the per-call fields for a new top-level evaluation.
func (st *State) reset(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	st.ctx = ctx
	st.depth = 0
	st.loops = 0
	st.passed = false
	clear(st.active)
}
