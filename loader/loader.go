// Package loader reads and writes ledger books: YAML files holding accounts,
// transactions, recurring templates and book options. A book may include other books.
//
// The loader supports two modes of operation:
//   - Simple mode: Reads a single file and leaves its include list untouched
//   - Follow mode: Recursively loads all included files and merges them into one book
//
// When following includes, the loader resolves relative paths from the directory of
// the file containing the include, and deduplicates files that are included multiple
// times.
//
// Example usage:
//
//	result, err := loader.New(loader.WithFollowIncludes()).Load(ctx, "book.yaml")
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/uFincs/uFincs-sub004/ledger"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/telemetry"
)

// Book is the on-disk ledger.
type Book struct {
	Options      map[string]string         `yaml:"options,omitempty"`
	Include      []string                  `yaml:"include,omitempty"`
	Accounts     []model.Account           `yaml:"accounts"`
	Transactions []model.Transaction       `yaml:"transactions"`
	Templates    []model.RecurringTemplate `yaml:"templates"`
}

// Result is a loaded book with the paths it came from.
type Result struct {
	Book *Book

	// Root is the absolute path of the file passed to Load.
	Root string

	// Includes lists the absolute paths of every included file that was merged, in load
	// order. It is empty unless the loader follows includes.
	Includes []string

	// Config holds the parsed book options.
	Config *ledger.Config
}

// Loader reads ledger books.
type Loader struct {
	// FollowIncludes determines whether to recursively load included files.
	FollowIncludes bool
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithFollowIncludes configures the loader to recursively load and merge all included
// files. Options from the including file take precedence.
func WithFollowIncludes() Option {
	return func(l *Loader) {
		l.FollowIncludes = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads a book file.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("loader.load %s", filepath.Base(filename)))
	defer timer.End()

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	var (
		book     *Book
		includes []string
	)
	if l.FollowIncludes {
		state := &loaderState{visited: make(map[string]bool)}
		book, err = state.loadRecursive(ctx, absPath)
		includes = state.order
	} else {
		book, err = readBook(absPath)
	}
	if err != nil {
		return nil, err
	}

	cfg, err := ledger.ConfigFromOptions(book.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return &Result{Book: book, Root: absPath, Includes: includes, Config: cfg}, nil
}

// Load reads a single book file without following includes.
func Load(ctx context.Context, filename string) (*Result, error) {
	return New().Load(ctx, filename)
}

// loaderState tracks state during recursive loading.
type loaderState struct {
	visited map[string]bool
	order   []string
}

func (l *loaderState) loadRecursive(ctx context.Context, absPath string) (*Book, error) {
	if l.visited[absPath] {
		return &Book{}, nil
	}
	l.visited[absPath] = true

	book, err := readBook(absPath)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(absPath)
	for _, inc := range book.Include {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		includePath := inc
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(baseDir, includePath)
		}
		if l.visited[includePath] {
			continue
		}
		l.order = append(l.order, includePath)

		included, err := l.loadRecursive(ctx, includePath)
		if err != nil {
			return nil, fmt.Errorf("in file %s: %w", absPath, err)
		}
		merge(book, included)
	}

	book.Include = nil
	return book, nil
}

// merge appends included's entries to main. Options already set in main win.
func merge(main, included *Book) {
	for k, v := range included.Options {
		if _, ok := main.Options[k]; ok {
			continue
		}
		if main.Options == nil {
			main.Options = make(map[string]string)
		}
		main.Options[k] = v
	}
	main.Accounts = append(main.Accounts, included.Accounts...)
	main.Transactions = append(main.Transactions, included.Transactions...)
	main.Templates = append(main.Templates, included.Templates...)
}

func readBook(filename string) (*Book, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	book, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	return book, nil
}

// Parse decodes a book from YAML. Unknown keys are rejected so typos surface instead of
// silently dropping fields.
func Parse(data []byte) (*Book, error) {
	book := &Book{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(book); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return book, nil
}

// Marshal encodes a book as YAML.
func Marshal(book *Book) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(book); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes book to filename, replacing it atomically.
func Save(ctx context.Context, filename string, book *Book) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("loader.save %s", filepath.Base(filename)))
	defer timer.End()

	data, err := Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), ".ufincs-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
