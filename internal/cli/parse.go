package cli

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-shellwords"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// ParseInput splits a console line into a lowercased command and its arguments.
// Quoting follows shell words, so "Ann Lee" or 'Ann Lee' is one argument.
// An apostrophe between two letters (O'Neil, Мар'яна) stays part of the word.
// Unterminated quotes and shell operators are reported as errors.
func ParseInput(line string) (string, []string, error) {
	parser := shellwords.NewParser()
	tokens, err := parser.Parse(escapeApostrophes(line))
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", config.ErrParseInput, err)
	}
	if parser.Position >= 0 {
		return "", nil, fmt.Errorf("%s: %s %d", config.ErrParseInput, config.ErrShellOperator, parser.Position)
	}

	if len(tokens) == 0 {
		return "", nil, nil
	}
	return strings.ToLower(tokens[0]), tokens[1:], nil
}

// escapeApostrophes backslash-escapes every ' that sits between two letters.
func escapeApostrophes(line string) string {
	runes := []rune(line)
	var b strings.Builder
	for i, r := range runes {
		if r == '\'' && i > 0 && i < len(runes)-1 &&
			unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i+1]) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
