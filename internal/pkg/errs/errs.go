// Package errs is the project's error vocabulary on top of
// cockroachdb/errors: constructors that record a stack, marks for the
// categories in domain_errors.go, and stack extraction for logs.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func New(msg string) error { return cr.New(msg) }

func Newf(format string, args ...any) error { return cr.Newf(format, args...) }

// Wrap and Wrapf return nil for a nil err.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

// Mark makes Is(err, category) true without changing err's message. A nil
// err yields the category itself.
func Mark(err, category error) error {
	if err == nil {
		return category
	}
	return cr.Mark(err, category)
}

// Is sees marks as well as wrap chains; errors.Is does not see marks.
func Is(err, target error) bool { return cr.Is(err, target) }

func As(err error, target any) bool { return cr.As(err, target) }

// ExtractStackLines renders err with its recorded stack and keeps the first
// limit non-blank lines (all of them when limit <= 0).
func ExtractStackLines(err error, limit int) []string {
	if err == nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(fmt.Sprintf("%+v", err), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
