// Package codeblock finds triple-backtick fenced code blocks in message text.
package codeblock

import "regexp"

// fencePattern matches ```<tag>\n<body>``` lazily so consecutive blocks are
// returned separately. The tag is optional and limited to word characters.
var fencePattern = regexp.MustCompile("```(\\w*)\\n([\\s\\S]*?)```")

// Block is one fenced block. Language is the tag exactly as written.
type Block struct {
	Language string
	Code     string
}

// Error is returned when the text holds nothing to run.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// UserMessage is the text shown in the channel.
func (e *Error) UserMessage() string {
	return "ERROR: No code block found.\nHint: ```<language>"
}

// ErrNoCodeBlock means no fenced block was found.
var ErrNoCodeBlock = &Error{msg: "no code block found"}

// Extract returns every fenced block in document order.
func Extract(text string) ([]Block, error) {
	matches := fencePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, ErrNoCodeBlock
	}

	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{Language: m[1], Code: m[2]})
	}
	return blocks, nil
}
