package stride

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Frontend runs the lexer and the parser over a source. The zero value uses
// default lexer options.
type Frontend struct {
	opts []LexerOption
}

func NewFrontend(opts ...LexerOption) *Frontend {
	return &Frontend{opts: opts}
}

func (f *Frontend) Tokenize(src string) ([]Token, error) {
	return NewLexer(src, f.opts...).Tokenize()
}

func (f *Frontend) ParseString(src string) (*AST, error) {
	tokens, err := f.Tokenize(src)
	if err != nil {
		return nil, err
	}

	return NewParser(tokens).Parse()
}

func (f *Frontend) ParseReader(reader io.Reader) (*AST, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "read source")
	}

	return f.ParseString(string(src))
}

func (f *Frontend) ParseFile(filename string) (*AST, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filename)
	}

	return f.ParseString(string(src))
}

// Tokenize scans src into tokens ending with EOF.
func Tokenize(src string, opts ...LexerOption) ([]Token, error) {
	return NewFrontend(opts...).Tokenize(src)
}

// Parse scans and parses src. Empty input yields an AST without statements.
func Parse(src string, opts ...LexerOption) (*AST, error) {
	return NewFrontend(opts...).ParseString(src)
}
