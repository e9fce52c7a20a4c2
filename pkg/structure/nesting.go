package structure

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/panbanda/winnow/pkg/parser"
)

// nestingTypes increment depth when entered: conditionals, loops,
// with/context blocks, exception blocks and function/closure definitions.
var nestingTypes = map[string]bool{
	"if_statement": true, "if_expression": true,
	"while_statement": true, "while_expression": true,
	"for_statement": true, "for_expression": true,
	"with_statement": true,
	"try_statement":  true,
	// catch_clause covers grammars with no enclosing try node; an
	// except_clause always sits inside a counted try_statement, so
	// counting it too would double-charge a try/except block.
	"catch_clause":     true,
	"switch_statement": true, "match_expression": true, "match_statement": true,
	"function_definition": true, "function_declaration": true,
	"method_declaration": true, "method_definition": true,
	"function_item": true,
	"lambda":        true, "lambda_expression": true,
	"arrow_function": true, "func_literal": true, "closure_expression": true,
}

// NestingDepth returns the maximum nesting depth reached anywhere in the
// snippet. Depth starts at zero outside any block; a ParseFailure error
// signals the caller to apply its default.
func (a *Analyzer) NestingDepth(code, langTag string) (int, error) {
	lang := parser.FromTag(langTag)
	if lang == parser.LangUnknown {
		return 0, fmt.Errorf("%w: no grammar for %q", ErrParseFailure, langTag)
	}

	result, err := a.parser.Parse([]byte(code), lang)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if result.HasError() {
		return 0, fmt.Errorf("%w: %s snippet has syntax errors", ErrParseFailure, langTag)
	}

	return maxNesting(result.Tree.RootNode(), 0), nil
}

// maxNesting walks depth-first, tracking the deepest point reached rather
// than a running value.
func maxNesting(node *sitter.Node, depth int) int {
	maxDepth := depth

	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		childDepth := depth
		if nestingTypes[child.Type()] {
			childDepth++
		}
		if m := maxNesting(child, childDepth); m > maxDepth {
			maxDepth = m
		}
	}

	return maxDepth
}
