package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_Wrapped(t *testing.T) {
	sentinel := New(KindDuplicateEvent, "duplicate")
	wrapped := fmt.Errorf("record: %w", sentinel)

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindDuplicateEvent, kind)
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, IsKind(wrapped, KindDuplicateEvent))
	assert.False(t, IsKind(wrapped, KindEmptyAudience))
}

func TestKindOf_PlainError(t *testing.T) {
	kind, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)
	assert.Empty(t, kind)
}
