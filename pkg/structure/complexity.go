// Package structure computes structural annotations over snippet code:
// cyclomatic complexity, nesting depth, AST equivalence and AST-aware
// completion splitting.
package structure

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/panbanda/winnow/pkg/parser"
)

// ErrParseFailure marks snippets the structural analyzer could not build a
// tree for. Never fatal to a batch; callers substitute defaults.
var ErrParseFailure = errors.New("parse failure")

// ComplexityStrategy computes cyclomatic complexity for one snippet. Two
// variants exist: a precise tree-sitter strategy for languages with an
// available grammar, and a branch-keyword heuristic for the rest. The
// variant is chosen once at analyzer construction, not per call.
type ComplexityStrategy interface {
	Complexity(code []byte) (float64, error)
}

// Analyzer computes structural metrics. Not safe for concurrent use; the
// underlying parser holds per-instance state. Create one per worker.
type Analyzer struct {
	parser     *parser.Parser
	strategies map[parser.Language]ComplexityStrategy
	fallback   ComplexityStrategy
}

// New creates a structural analyzer. Strategies are bound per language up
// front: grammar available means the AST strategy, anything else the
// keyword heuristic.
func New() *Analyzer {
	p := parser.New()
	a := &Analyzer{
		parser:     p,
		strategies: make(map[parser.Language]ComplexityStrategy),
		fallback:   heuristicStrategy{},
	}
	for _, lang := range []parser.Language{
		parser.LangGo, parser.LangRust, parser.LangPython,
		parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX,
		parser.LangJava,
	} {
		a.strategies[lang] = &astStrategy{parser: p, lang: lang}
	}
	return a
}

// Close releases parser resources.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// Strategy returns the complexity strategy bound to a language tag.
func (a *Analyzer) Strategy(langTag string) ComplexityStrategy {
	if s, ok := a.strategies[parser.FromTag(langTag)]; ok {
		return s
	}
	return a.fallback
}

// Complexity computes cyclomatic complexity for a snippet. The returned
// value is always >= 1; a ParseFailure error signals the caller to apply
// its own default.
func (a *Analyzer) Complexity(code, langTag string) (float64, error) {
	return a.Strategy(langTag).Complexity([]byte(code))
}

// astStrategy counts decision points in the parse tree.
type astStrategy struct {
	parser *parser.Parser
	lang   parser.Language
}

// Complexity implements ComplexityStrategy. Base complexity is 1, plus one
// per conditional, loop, exception handler and boolean and/or.
func (s *astStrategy) Complexity(code []byte) (float64, error) {
	result, err := s.parser.Parse(code, s.lang)
	if err != nil {
		return 1, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if result.HasError() {
		return 1, fmt.Errorf("%w: %s snippet has syntax errors", ErrParseFailure, s.lang)
	}

	decisions := decisionNodeTypes(s.lang)
	var count float64

	parser.WalkTyped(result.Tree.RootNode(), result.Source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if decisions[nodeType] {
			count++
		}
		if nodeType == "binary_expression" || nodeType == "boolean_operator" || nodeType == "binary_operator" {
			switch operatorOf(n, src) {
			case "&&", "||", "and", "or":
				count++
			}
		}
		return true
	})

	return 1 + count, nil
}

// decisionNodeTypes returns AST node types that represent decision points.
func decisionNodeTypes(lang parser.Language) map[string]bool {
	common := []string{
		"if_statement",
		"if_expression",
		"while_statement",
		"while_expression",
		"for_statement",
		"for_expression",
		"case_statement",
		"catch_clause",
		"ternary_expression",
		"conditional_expression",
	}

	switch lang {
	case parser.LangGo:
		common = append(common, "select_statement", "type_switch_statement", "expression_switch_statement")
	case parser.LangRust:
		common = append(common, "match_expression", "loop_expression", "if_let_expression")
	case parser.LangPython:
		common = append(common, "elif_clause", "except_clause", "comprehension", "for_in_clause", "if_clause")
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		common = append(common, "switch_statement", "do_statement")
	case parser.LangJava:
		common = append(common, "switch_expression", "do_statement", "enhanced_for_statement")
	}

	set := make(map[string]bool, len(common))
	for _, t := range common {
		set[t] = true
	}
	return set
}

// operatorOf extracts the operator token from a binary expression node.
func operatorOf(node *sitter.Node, source []byte) string {
	if op := node.ChildByFieldName("operator"); op != nil {
		return parser.GetNodeText(op, source)
	}
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		switch child.Type() {
		case "&&", "||", "and", "or":
			return child.Type()
		}
	}
	return ""
}

// branchKeywords are counted as substrings by the heuristic strategy. The
// surrounding spaces keep identifiers like "form" or "order" from
// matching.
var branchKeywords = []string{
	" if ", " for ", " while ", " and ", " or ", " except ", " elif ",
	" case ", " catch ",
}

// heuristicStrategy approximates complexity by counting branch keyword
// occurrences as token substrings. Looser than the AST strategy but never
// unavailable.
type heuristicStrategy struct{}

// Complexity implements ComplexityStrategy.
func (heuristicStrategy) Complexity(code []byte) (float64, error) {
	text := string(code)
	var count int
	for _, kw := range branchKeywords {
		count += strings.Count(text, kw)
	}
	return float64(1 + count), nil
}
