package structure

import (
	"strings"

	"github.com/panbanda/winnow/pkg/parser"
)

// SplitType labels where a completion split was made.
type SplitType string

const (
	SplitArgumentList SplitType = "argument_list"
	SplitControlFlow  SplitType = "control_flow"
	SplitMethodBody   SplitType = "method_body"
)

// SplitCandidate is a (prefix, completion) pair whose concatenation is
// guaranteed to reparse cleanly.
type SplitCandidate struct {
	Prefix     string    `json:"prefix"`
	Completion string    `json:"completion"`
	Type       SplitType `json:"completion_type"`
}

// controlFlowTypes mark statements that open a control-flow block.
var controlFlowTypes = map[string]bool{
	"if_statement":     true,
	"for_statement":    true,
	"while_statement":  true,
	"try_statement":    true,
	"switch_statement": true,
	"match_statement":  true,
}

// Split produces AST-aware completion split candidates for a function
// snippet. Candidates whose prefix+completion fails to reparse are
// discarded, never emitted. When nothing structural qualifies and the
// snippet exceeds three lines, a single trailing three-line method_body
// split is tried as a fallback.
func (a *Analyzer) Split(code, langTag string) []SplitCandidate {
	lang := parser.FromTag(langTag)
	if lang == parser.LangUnknown {
		return nil
	}

	result, err := a.parser.Parse([]byte(code), lang)
	if err != nil || result.HasError() {
		return nil
	}

	lines := splitKeepEnds(code)
	var out []SplitCandidate

	add := func(prefixIdx, endIdx int, t SplitType) {
		if prefixIdx <= 0 || prefixIdx >= endIdx || endIdx > len(lines) {
			return
		}
		prefix := strings.Join(lines[:prefixIdx], "")
		completion := strings.Join(lines[prefixIdx:endIdx], "")
		if a.reparses(prefix+completion, lang) {
			out = append(out, SplitCandidate{Prefix: prefix, Completion: completion, Type: t})
		}
	}

	for _, fn := range parser.Functions(result) {
		if fn.Body == nil {
			continue
		}

		// Signature gap: when the def line and first body statement are
		// two or more lines apart the argument list itself is a target.
		defLine := int(fn.Node.StartPoint().Row) + 1
		if fn.Body.NamedChildCount() > 0 {
			bodyStart := int(fn.Body.NamedChild(0).StartPoint().Row) + 1
			if bodyStart-defLine >= 2 {
				add(defLine-1, bodyStart-1, SplitArgumentList)
			}
		}

		for i := range int(fn.Body.NamedChildCount()) {
			stmt := fn.Body.NamedChild(i)
			start := int(stmt.StartPoint().Row)
			end := int(stmt.EndPoint().Row) + 1
			if controlFlowTypes[stmt.Type()] {
				add(start, end, SplitControlFlow)
			} else {
				add(start, end, SplitMethodBody)
			}
		}
	}

	if len(out) == 0 && len(lines) > 3 {
		add(len(lines)-3, len(lines), SplitMethodBody)
	}

	return out
}

// reparses checks that code parses without ERROR or missing nodes.
func (a *Analyzer) reparses(code string, lang parser.Language) bool {
	result, err := a.parser.Parse([]byte(code), lang)
	return err == nil && !result.HasError()
}

// splitKeepEnds splits text into lines retaining the trailing newline of
// each line.
func splitKeepEnds(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			if text != "" {
				lines = append(lines, text)
			}
			return lines
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
}
