package structure

import (
	"fmt"

	"github.com/panbanda/winnow/pkg/parser"
)

// FunctionInfo parses a snippet and returns the name, parameter names and
// docstring of its first function definition. Snippets that parse but
// contain no function definition return empty values and no error.
func (a *Analyzer) FunctionInfo(code, langTag string) (name string, params []string, docstring string, err error) {
	lang := parser.FromTag(langTag)
	if lang == parser.LangUnknown {
		return "", nil, "", fmt.Errorf("%w: unsupported language %q", ErrParseFailure, langTag)
	}

	result, err := a.parser.Parse([]byte(code), lang)
	if err != nil || result.HasError() {
		return "", nil, "", fmt.Errorf("%w: %s", ErrParseFailure, langTag)
	}

	fns := parser.Functions(result)
	if len(fns) == 0 {
		return "", nil, "", nil
	}
	fn := fns[0]
	return fn.Name, fn.Parameters, fn.Docstring, nil
}
