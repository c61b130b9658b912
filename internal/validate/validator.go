// Package validate turns raw execution output into channel-safe content.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxLines rejects a wrapped block holding this many newlines or more.
	DefaultMaxLines = 25
	// DefaultMaxChars is the platform's message length ceiling.
	DefaultMaxChars = 2000
)

// Kind identifies which limit was exceeded.
type Kind int

const (
	TooManyLines Kind = iota + 1
	TooManyCharacters
)

// Error reports output that cannot be delivered.
type Error struct {
	Kind  Kind
	Count int
	Limit int
}

func (e *Error) Error() string {
	switch e.Kind {
	case TooManyLines:
		return fmt.Sprintf("output has %d newlines (limit %d)", e.Count, e.Limit)
	case TooManyCharacters:
		return fmt.Sprintf("reply has %d characters (limit %d)", e.Count, e.Limit)
	default:
		return "invalid output"
	}
}

// UserMessage never includes the rejected output.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case TooManyLines:
		return "ERROR: Output contained too many lines."
	case TooManyCharacters:
		return "ERROR: Output contained too many characters."
	default:
		return "ERROR: Invalid output."
	}
}

// Response is the content handed to the wire layer. IsError replies are
// delivered privately to the invoking user.
type Response struct {
	Content string
	IsError bool
}

// Success wraps deliverable content.
func Success(content string) Response {
	return Response{Content: content}
}

// Failure wraps an error message.
func Failure(message string) Response {
	return Response{Content: message, IsError: true}
}

// Validator enforces per-block line limits and the whole-reply length limit.
type Validator struct {
	MaxLines int
	MaxChars int
}

// New returns a Validator, substituting defaults for non-positive limits.
func New(maxLines, maxChars int) Validator {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return Validator{MaxLines: maxLines, MaxChars: maxChars}
}

// Wrap fences output the way replies are rendered.
func Wrap(output string) string {
	return "```\n" + output + "```\n"
}

// Block wraps one backend output and checks its line count.
func (v Validator) Block(output string) (string, error) {
	wrapped := Wrap(output)
	if n := strings.Count(wrapped, "\n"); n >= v.MaxLines {
		return "", &Error{Kind: TooManyLines, Count: n, Limit: v.MaxLines}
	}
	return wrapped, nil
}

// Reply joins wrapped blocks in order and checks the total length.
func (v Validator) Reply(blocks []string) (string, error) {
	reply := strings.Join(blocks, "")
	if n := utf8.RuneCountInString(reply); n >= v.MaxChars {
		return "", &Error{Kind: TooManyCharacters, Count: n, Limit: v.MaxChars}
	}
	return reply, nil
}
