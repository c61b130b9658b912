package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AppliesDefaults(t *testing.T) {
	v := New(0, -1)
	assert.Equal(t, DefaultMaxLines, v.MaxLines)
	assert.Equal(t, DefaultMaxChars, v.MaxChars)

	v = New(10, 100)
	assert.Equal(t, 10, v.MaxLines)
	assert.Equal(t, 100, v.MaxChars)
}

func TestBlock_Wraps(t *testing.T) {
	v := New(0, 0)
	got, err := v.Block("Hello\n")
	require.NoError(t, err)
	assert.Equal(t, "```\nHello\n```\n", got)
}

func TestBlock_LineLimit(t *testing.T) {
	v := New(0, 0)

	// 22 output newlines + 2 from the fence = 24, still allowed.
	ok := strings.Repeat("x\n", 22)
	got, err := v.Block(ok)
	require.NoError(t, err)
	assert.Equal(t, 24, strings.Count(got, "\n"))

	// 23 output newlines + 2 = 25, rejected.
	tooMany := strings.Repeat("secret\n", 23)
	got, err = v.Block(tooMany)
	require.Error(t, err)
	assert.Empty(t, got)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, TooManyLines, verr.Kind)
	assert.Equal(t, 25, verr.Count)
	assert.Equal(t, "ERROR: Output contained too many lines.", verr.UserMessage())
	assert.NotContains(t, verr.UserMessage(), "secret")
}

func TestReply_CharacterLimit(t *testing.T) {
	v := New(0, 0)

	underLimit := strings.Repeat("a", 1999)
	got, err := v.Reply([]string{underLimit})
	require.NoError(t, err)
	assert.Equal(t, underLimit, got)

	_, err = v.Reply([]string{strings.Repeat("a", 1000), strings.Repeat("b", 1000)})
	require.Error(t, err)
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, TooManyCharacters, verr.Kind)
	assert.Equal(t, 2000, verr.Count)
	assert.Equal(t, "ERROR: Output contained too many characters.", verr.UserMessage())
}

func TestReply_CountsCharactersNotBytes(t *testing.T) {
	v := New(0, 0)
	// 1500 two-byte runes: 3000 bytes but 1500 characters.
	reply := strings.Repeat("é", 1500)
	got, err := v.Reply([]string{reply})
	require.NoError(t, err)
	assert.Equal(t, reply, got)
}

func TestReply_PreservesOrder(t *testing.T) {
	v := New(0, 0)
	got, err := v.Reply([]string{Wrap("1\n"), Wrap("2\n")})
	require.NoError(t, err)
	assert.Equal(t, "```\n1\n```\n```\n2\n```\n", got)
}

func TestResponses(t *testing.T) {
	assert.Equal(t, Response{Content: "ok"}, Success("ok"))
	assert.Equal(t, Response{Content: "bad", IsError: true}, Failure("bad"))
}
