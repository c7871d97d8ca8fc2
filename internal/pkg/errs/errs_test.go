//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"enrollment-sync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	err := errs.Mark(errs.New("enrollment R-1 is APPROVED"), errs.ErrConflict)

	assert.True(t, errs.Is(err, errs.ErrConflict))
	assert.False(t, errs.Is(err, errs.ErrNotFound))
	assert.Equal(t, "enrollment R-1 is APPROVED", err.Error())
	assert.Equal(t, errs.ErrValidation, errs.Mark(nil, errs.ErrValidation))
}

func TestWrapKeepsMarks(t *testing.T) {
	base := errs.Mark(errors.New("missing"), errs.ErrNotFound)
	wrapped := errs.Wrapf(base, "load %s", "R-1")

	assert.True(t, errs.Is(wrapped, errs.ErrNotFound))
	assert.Equal(t, "load R-1: missing", wrapped.Error())
	assert.NoError(t, errs.Wrap(nil, "ignored"))
}

func TestExtractStackLines(t *testing.T) {
	lines := errs.ExtractStackLines(errs.New("boom"), 3)

	assert.Len(t, lines, 3)
	assert.Equal(t, "boom", lines[0])
	assert.Nil(t, errs.ExtractStackLines(nil, 3))
}
