// Package pattern compiles user-supplied search strings into safe matchers.
//
// Patterns follow browser (ECMAScript) regular expression semantics and are
// evaluated with github.com/dlclark/regexp2. Compilation never fails loudly:
// a malformed pattern yields an invalid Compiled value and a warning log line.
package pattern

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultFlags are the flags used by Compile.
const DefaultFlags = "i"

// DefaultMatchTimeout bounds a single evaluation of a compiled pattern.
const DefaultMatchTimeout = 250 * time.Millisecond

// ErrEmptyPattern is reported when there is nothing left to compile.
var ErrEmptyPattern = errors.New("pattern is empty")

// SyntaxError is reported when the engine rejects a pattern or its flags.
type SyntaxError struct {
	Pattern string
	Flags   string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Reason tells why a Compiled value holds no matcher.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonEmpty
	ReasonSyntax
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonEmpty:
		return "empty"
	case ReasonSyntax:
		return "syntax"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Compiled is either a usable matcher or an invalid result.
// Callers must check Matcher's second return value before matching.
type Compiled struct {
	matcher *Matcher
	reason  Reason
	err     error
}

// Matcher returns the compiled matcher and true, or nil and false when invalid.
func (c Compiled) Matcher() (*Matcher, bool) {
	return c.matcher, c.matcher != nil
}

// Valid reports whether a matcher was produced.
func (c Compiled) Valid() bool { return c.matcher != nil }

// Reason returns ReasonNone for valid results.
func (c Compiled) Reason() Reason { return c.reason }

// Err returns ErrEmptyPattern or a *SyntaxError for invalid results, nil otherwise.
func (c Compiled) Err() error { return c.err }

func invalid(reason Reason, err error) Compiled {
	return Compiled{reason: reason, err: err}
}

// Config holds compiler settings.
type Config struct {
	// Flags are used by Compile and IsValidPattern. Defaults to DefaultFlags.
	Flags string
	// MatchTimeout bounds every evaluation. Defaults to DefaultMatchTimeout.
	MatchTimeout time.Duration
}

// Compiler turns raw input into matchers. It holds no per-pattern state, so
// every call compiles afresh, and it is safe for concurrent use.
type Compiler struct {
	flags   string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a compiler. A nil logger logs through slog.Default().
func New(cfg Config, logger *slog.Logger) *Compiler {
	if cfg.Flags == "" {
		cfg.Flags = DefaultFlags
	}
	if cfg.MatchTimeout <= 0 {
		cfg.MatchTimeout = DefaultMatchTimeout
	}
	return &Compiler{flags: cfg.Flags, timeout: cfg.MatchTimeout, logger: logger}
}

func (c *Compiler) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Compile compiles input with the compiler's flags.
func (c *Compiler) Compile(input string) Compiled {
	return c.CompileWithFlags(input, c.flags)
}

// CompileWithFlags normalizes input and compiles it.
// Surrounding whitespace is trimmed and a /regex-literal/ form is unwrapped
// once; "/abc" is left alone.
func (c *Compiler) CompileWithFlags(input, flags string) Compiled {
	body := strings.TrimSpace(input)
	if len(body) >= 2 && strings.HasPrefix(body, "/") && strings.HasSuffix(body, "/") {
		body = body[1 : len(body)-1]
	}
	return c.CompileRaw(body, flags)
}

// CompileRaw compiles body exactly as given, without trimming or unwrapping.
func (c *Compiler) CompileRaw(body, flags string) Compiled {
	if body == "" {
		return invalid(ReasonEmpty, ErrEmptyPattern)
	}

	m, err := c.build(body, flags)
	if err != nil {
		serr := &SyntaxError{Pattern: body, Flags: flags, Err: err}
		c.log().Warn("invalid search pattern", "pattern", body, "flags", flags, "error", err)
		return invalid(ReasonSyntax, serr)
	}
	return Compiled{matcher: m}
}

// build runs the engine behind a recover so no engine failure escapes.
func (c *Compiler) build(body, flags string) (m *Matcher, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("pattern engine panic: %v", r)
		}
	}()

	opts, err := parseFlags(flags)
	if err != nil {
		return nil, err
	}

	re, err := regexp2.Compile(body, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = c.timeout

	return &Matcher{re: re, source: body, flags: flags, logger: c.logger}, nil
}

// ValidateFlags reports whether flags is a set the compiler accepts:
// any of i, m and g, each at most once.
func ValidateFlags(flags string) error {
	_, err := parseFlags(flags)
	return err
}

func parseFlags(flags string) (regexp2.RegexOptions, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	seen := make(map[rune]bool, len(flags))
	for _, f := range flags {
		if seen[f] {
			return 0, fmt.Errorf("duplicate flag %q", f)
		}
		seen[f] = true

		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 'g':
			// matching is always global
		default:
			return 0, fmt.Errorf("unsupported flag %q", f)
		}
	}
	return opts, nil
}

// Validity is the outcome of IsValidPattern. Error is nil when Valid.
type Validity struct {
	Valid bool    `json:"valid"`
	Error *string `json:"error"`
}

// IsValidPattern reports whether pattern compiles with the compiler's flags,
// exposing the engine's message when it does not.
func (c *Compiler) IsValidPattern(pattern string) Validity {
	if strings.TrimSpace(pattern) == "" {
		return invalidity("Pattern cannot be empty")
	}

	compiled := c.Compile(pattern)
	if compiled.Valid() {
		return Validity{Valid: true}
	}

	var serr *SyntaxError
	if errors.As(compiled.Err(), &serr) {
		return invalidity(serr.Err.Error())
	}
	return invalidity("Pattern cannot be empty")
}

func invalidity(msg string) Validity {
	return Validity{Valid: false, Error: &msg}
}

var std = New(Config{}, nil)

// Compile compiles input with DefaultFlags using the default compiler.
func Compile(input string) Compiled { return std.Compile(input) }

// CompileWithFlags compiles input with flags using the default compiler.
func CompileWithFlags(input, flags string) Compiled { return std.CompileWithFlags(input, flags) }

// IsValidPattern checks pattern using the default compiler.
func IsValidPattern(pattern string) Validity { return std.IsValidPattern(pattern) }
