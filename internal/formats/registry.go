// Package formats provides a registry of output formats for the CLI.
package formats

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ArionMiles/spendlens/pkg/writer"
	csvwriter "github.com/ArionMiles/spendlens/pkg/writer/csv"
	jsonwriter "github.com/ArionMiles/spendlens/pkg/writer/json"
	mdwriter "github.com/ArionMiles/spendlens/pkg/writer/markdown"
)

// Options are the writer settings a format may honour.
type Options struct {
	// Width is the terminal width for rendered output.
	Width int
	// Compact asks for the smallest encoding, where the format has one.
	Compact bool
}

// Format defines an output format.
type Format interface {
	// Name returns the format name used on the command line (e.g., "json").
	Name() string
	// Description returns a human-readable description.
	Description() string
	// NewWriter creates a writer for this format.
	NewWriter(opts Options, logger *slog.Logger) writer.Writer
}

// Registry manages available output formats.
type Registry struct {
	formats map[string]Format
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// Default returns a registry holding every built-in format.
func Default() *Registry {
	r := NewRegistry()
	for _, f := range []Format{jsonFormat{}, csvFormat{}, markdownFormat{}, terminalFormat{}} {
		// built-in names are distinct
		_ = r.Register(f)
	}
	return r
}

// Register adds a format.
func (r *Registry) Register(f Format) error {
	name := strings.ToLower(f.Name())
	if _, exists := r.formats[name]; exists {
		return fmt.Errorf("format %q already registered", name)
	}
	r.formats[name] = f
	return nil
}

// Get returns a format by name, ignoring case.
func (r *Registry) Get(name string) (Format, error) {
	f, exists := r.formats[strings.ToLower(strings.TrimSpace(name))]
	if !exists {
		return nil, fmt.Errorf("format %q not found (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return f, nil
}

// Names returns the registered format names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// List returns all registered formats ordered by name.
func (r *Registry) List() []Format {
	list := make([]Format, 0, len(r.formats))
	for _, name := range r.Names() {
		list = append(list, r.formats[name])
	}
	return list
}

// CreateWriter creates a writer for the named format.
func (r *Registry) CreateWriter(name string, opts Options, logger *slog.Logger) (writer.Writer, error) {
	f, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return f.NewWriter(opts, logger), nil
}

type jsonFormat struct{}

func (jsonFormat) Name() string        { return "json" }
func (jsonFormat) Description() string { return "JSON documents" }
func (jsonFormat) NewWriter(opts Options, logger *slog.Logger) writer.Writer {
	return jsonwriter.New(jsonwriter.Config{Compact: opts.Compact}, logger)
}

type csvFormat struct{}

func (csvFormat) Name() string        { return "csv" }
func (csvFormat) Description() string { return "comma separated values" }
func (csvFormat) NewWriter(_ Options, logger *slog.Logger) writer.Writer {
	return csvwriter.New(csvwriter.Config{}, logger)
}

type markdownFormat struct{}

func (markdownFormat) Name() string        { return "markdown" }
func (markdownFormat) Description() string { return "markdown tables" }
func (markdownFormat) NewWriter(opts Options, logger *slog.Logger) writer.Writer {
	return mdwriter.New(mdwriter.Config{Width: opts.Width}, logger)
}

type terminalFormat struct{}

func (terminalFormat) Name() string        { return "terminal" }
func (terminalFormat) Description() string { return "markdown rendered for the terminal" }
func (terminalFormat) NewWriter(opts Options, logger *slog.Logger) writer.Writer {
	return mdwriter.New(mdwriter.Config{Render: true, Width: opts.Width}, logger)
}
