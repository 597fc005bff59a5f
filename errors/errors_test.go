package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := New("unexpected token")
	wrapped := Wrapf(cause, "extension %s", "slang.toml")

	assert.Contains(t, wrapped.Error(), "extension slang.toml")
	assert.Contains(t, wrapped.Error(), "unexpected token")
	assert.True(t, Is(wrapped, cause))
}

func TestHintsAndDetailsSurviveWrapping(t *testing.T) {
	err := New("duplicate name")
	err = WithHint(err, "rename the entry")
	err = WithDetail(err, "entry: smash")
	err = Wrap(err, "catalog build")

	require.Len(t, GetAllHints(err), 1)
	assert.Equal(t, "rename the entry", GetAllHints(err)[0])
	assert.Contains(t, GetAllDetails(err), "entry: smash")
}

func TestSentinelConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NewNotFoundError("document %s", "file:///a.vibe"), IsNotFoundError},
		{"invalid request", NewInvalidRequestError("line %d out of range", 9), IsInvalidRequestError},
		{"conflict", NewConflictError("name %q already defined", "yeet"), IsConflictError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(Wrap(tt.err, "outer")))
			assert.False(t, tt.check(nil))
			assert.False(t, tt.check(New("other")))
		})
	}
}

func TestRateLimitedSentinel(t *testing.T) {
	err := Wrapf(ErrRateLimited, "client %s", "127.0.0.1")
	assert.True(t, Is(err, ErrRateLimited))
	assert.False(t, IsNotFoundError(err))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestStackTrace(t *testing.T) {
	detailed := fmt.Sprintf("%+v", New("with stack"))
	assert.Contains(t, detailed, "errors_test.go")
}

func ExampleWithHint() {
	err := New("unknown category \"verb\"")
	err = WithHint(err, "use keyword, builtin-function, constant, datatype or snippet")

	fmt.Println(GetAllHints(err)[0])
	// Output: use keyword, builtin-function, constant, datatype or snippet
}
