package structure

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/panbanda/winnow/pkg/parser"
)

// EquivalenceReason explains an equivalence verdict.
type EquivalenceReason string

const (
	ReasonEquivalent EquivalenceReason = "ast_equiv"
	ReasonNotEquiv   EquivalenceReason = "not_equiv"
	ReasonParseError EquivalenceReason = "parse_error"
)

// Equivalent reports whether two code strings parse to identical
// structures once source positions are disregarded. Unparsable input on
// either side yields false with ReasonParseError.
func (a *Analyzer) Equivalent(codeA, codeB, langTag string) (bool, EquivalenceReason) {
	lang := parser.FromTag(langTag)
	if lang == parser.LangUnknown {
		return false, ReasonParseError
	}

	treeA, err := a.parser.Parse([]byte(codeA), lang)
	if err != nil || treeA.HasError() {
		return false, ReasonParseError
	}
	treeB, err := a.parser.Parse([]byte(codeB), lang)
	if err != nil || treeB.HasError() {
		return false, ReasonParseError
	}

	if sameShape(treeA.Tree.RootNode(), treeB.Tree.RootNode(), treeA.Source, treeB.Source) {
		return true, ReasonEquivalent
	}
	return false, ReasonNotEquiv
}

// sameShape compares node kinds recursively; leaves compare their token
// text so identifiers and literals distinguish trees. Positions are never
// consulted.
func sameShape(a, b *sitter.Node, srcA, srcB []byte) bool {
	if a.Type() != b.Type() {
		return false
	}
	if a.ChildCount() != b.ChildCount() {
		return false
	}
	if a.ChildCount() == 0 {
		return parser.GetNodeText(a, srcA) == parser.GetNodeText(b, srcB)
	}
	for i := range int(a.ChildCount()) {
		if !sameShape(a.Child(i), b.Child(i), srcA, srcB) {
			return false
		}
	}
	return true
}
