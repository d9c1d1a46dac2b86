// Package tokenizer splits source code into the word tokens the language
// classifier is trained on.
//
// The comment and literal tables follow github's linguist tokenizer
// (https://github.com/github/linguist/blob/master/lib/linguist/tokenizer.rb),
// but by default nothing is stripped: comment markers and punctuation are
// some of the strongest hints about which language a listing is written in.
package tokenizer

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultByteLimit is the maximum input length considered by Tokenize.
const DefaultByteLimit = 100000

var (
	// StartLineComments only open a comment at the start of a line.
	StartLineComments = []string{
		"%", // Tex
	}
	// SingleLineComments open a comment that runs to the end of the line.
	SingleLineComments = []string{
		"//", // C
		"--", // Ada, Haskell, AppleScript
		"#",  // Perl, Bash, Ruby
	}
	// MultiLineComments are opening and closing comment delimiters.
	MultiLineComments = [][]string{
		{"/*", "*/"},    // C
		{"<!--", "-->"}, // XML
		{"{-", "-}"},    // Haskell
		{"(*", "*)"},    // Coq
		{`"""`, `"""`},  // Python
		{"'''", "'''"},  // Python
	}

	startLineComment []*regexp.Regexp

	// word: identifier-like runs; number: numeric literals; punct: runs of
	// anything else that is not whitespace
	tokenPattern = regexp.MustCompile(`[\p{L}_$][\p{L}\p{N}_$]*|\p{N}[\p{N}._xXa-fA-F]*|[^\s\p{L}\p{N}_$]+`)
	number       = regexp.MustCompile(`^(0[xX][0-9a-fA-F]+|\p{N}[\p{N}.]*([eE][-+]?\p{N}+)?)[uUlLfF]*$`)
	quote        = regexp.MustCompile("[\"'`]")
)

func init() {
	for _, st := range append(StartLineComments, SingleLineComments...) {
		startLineComment = append(startLineComment, regexp.MustCompile(`^\s*`+regexp.QuoteMeta(st)))
	}
}

// Tokenizer turns source text into tokens. A model must be queried with the
// same settings it was trained with, so stored models carry their Tokenizer.
type Tokenizer struct {
	// ByteLimit truncates longer inputs; zero means DefaultByteLimit.
	ByteLimit int `msgpack:"byte_limit" json:"byteLimit"`
	// SkipComments drops line comments and the contents of block comments.
	SkipComments bool `msgpack:"skip_comments" json:"skipComments"`
	// SkipLiterals drops string and numeric literals.
	SkipLiterals bool `msgpack:"skip_literals" json:"skipLiterals"`
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithByteLimit sets the input truncation length.
func WithByteLimit(n int) Option {
	return func(t *Tokenizer) { t.ByteLimit = n }
}

// WithoutComments makes the tokenizer skip comments.
func WithoutComments() Option {
	return func(t *Tokenizer) { t.SkipComments = true }
}

// WithoutLiterals makes the tokenizer skip string and number literals.
func WithoutLiterals() Option {
	return func(t *Tokenizer) { t.SkipLiterals = true }
}

// New returns a Tokenizer with the given options applied.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{ByteLimit: DefaultByteLimit}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// String names the settings that change the token stream.
func (t *Tokenizer) String() string {
	s := "tokens"
	if t.SkipComments {
		s += "-comments"
	}
	if t.SkipLiterals {
		s += "-literals"
	}
	return s
}

// Tokenize splits input with the default tokenizer.
func Tokenize(input []byte) []string {
	return New().Tokenize(input)
}

// Tokenize splits input into identifier, number and punctuation tokens,
// line by line.
func (t *Tokenizer) Tokenize(input []byte) (tokens []string) {
	if len(input) == 0 {
		return tokens
	}
	limit := t.ByteLimit
	if limit <= 0 {
		limit = DefaultByteLimit
	}
	if len(input) > limit {
		input = input[:limit]
	}
	input = norm.NFC.Bytes(input)

	var (
		blockEnd string // closing delimiter while inside a block comment
		strEnd   string // closing quote while inside a string literal
	)

	lines := bufio.NewScanner(bytes.NewReader(input))
	lines.Buffer(make([]byte, 0, 64*1024), len(input)+1)
	for lines.Scan() {
		line := lines.Text()
		if t.SkipComments && blockEnd == "" && strEnd == "" && isCommentLine(line) {
			continue
		}
		for _, tk := range tokenPattern.FindAllString(line, -1) {
			if blockEnd != "" {
				if strings.Contains(tk, blockEnd) {
					blockEnd = ""
				}
				continue
			}
			if strEnd != "" {
				if q := quote.FindString(tk); q == strEnd {
					strEnd = ""
				}
				continue
			}
			if t.SkipComments {
				if isLineCommentStart(tk) {
					break
				}
				if end, ok := blockCommentStart(tk); ok {
					blockEnd = end
					continue
				}
			}
			if t.SkipLiterals {
				if q := quote.FindString(tk); q != "" {
					// a token holding an odd number of quotes opens a literal
					if strings.Count(tk, q)%2 == 1 {
						strEnd = q
					}
					continue
				}
				if number.MatchString(tk) {
					continue
				}
			}
			tokens = append(tokens, tk)
		}
		// string literals do not span lines in most languages
		strEnd = ""
	}
	return tokens
}

func isCommentLine(line string) bool {
	for _, re := range startLineComment {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func isLineCommentStart(tk string) bool {
	for _, marker := range SingleLineComments {
		if strings.HasPrefix(tk, marker) {
			return true
		}
	}
	return false
}

// blockCommentStart reports whether tk opens a block comment and returns the
// matching closing delimiter, which is empty when tk closes the comment itself.
func blockCommentStart(tk string) (string, bool) {
	for _, ml := range MultiLineComments {
		open, end := ml[0], ml[1]
		if !strings.HasPrefix(tk, open) {
			continue
		}
		if strings.Contains(tk[len(open):], end) {
			return "", true
		}
		return end, true
	}
	return "", false
}
