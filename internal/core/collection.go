// Package core holds the kitchen collections: ingredients, recipes, meals and
// credentials. Collections keep their records in memory and sync them with a
// recordstore.Store around each operation.
//
// Collection methods never return store errors. A failed save or load is
// logged, reported to the user on the output writer, and the operation falls
// back to a safe default: the records that could be read, or no change on
// disk.
package core

import (
	"fmt"
	"io"
	"os"

	"recipecost/internal/logger"
	"recipecost/internal/recordstore"
)

// Option configures a collection.
type Option func(*settings)

type settings struct {
	log *logger.Logger
	out io.Writer
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithOutput sets where user-facing messages are written (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.out = w
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{log: logger.Nop(), out: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

type collection struct {
	store *recordstore.Store
	settings
}

func newCollection(store *recordstore.Store, opts []Option) collection {
	return collection{store: store, settings: newSettings(opts)}
}

func (c collection) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c collection) saveFailed(what string, err error) {
	c.log.Error("save %s: %v", what, err)
	c.printf("Error saving to file: %v\n", err)
}

func (c collection) loadFailed(what string, err error) {
	c.log.Error("load %s: %v", what, err)
	c.printf("Error loading from file: %v\n", err)
}

func formatCost(v float64) string {
	return fmt.Sprintf("%.2f$", v)
}

const separator = "-------------------------"
