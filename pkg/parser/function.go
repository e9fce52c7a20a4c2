package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Function represents a parsed function or method definition.
type Function struct {
	Name       string
	Parameters []string
	Docstring  string
	StartLine  uint32
	EndLine    uint32
	Node       *sitter.Node
	Body       *sitter.Node
}

// functionNodeTypes returns the AST node types for functions in each
// language.
func functionNodeTypes(lang Language) []string {
	switch lang {
	case LangGo:
		return []string{"function_declaration", "method_declaration"}
	case LangRust:
		return []string{"function_item"}
	case LangPython:
		return []string{"function_definition"}
	case LangTypeScript, LangJavaScript, LangTSX:
		return []string{"function_declaration", "function", "arrow_function", "method_definition"}
	case LangJava:
		return []string{"method_declaration", "constructor_declaration"}
	default:
		return nil
	}
}

// Functions extracts all function definitions from a parse result.
func Functions(result *Result) []Function {
	var functions []Function
	root := result.Tree.RootNode()

	types := make(map[string]bool)
	for _, t := range functionNodeTypes(result.Language) {
		types[t] = true
	}

	WalkTyped(root, result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if types[nodeType] {
			functions = append(functions, extractFunction(node, source, result.Language))
		}
		return true
	})

	return functions
}

// extractFunction pulls name, parameters and docstring out of a function
// node.
func extractFunction(node *sitter.Node, source []byte, lang Language) Function {
	fn := Function{
		StartLine: node.StartPoint().Row + 1,
		EndLine:   node.EndPoint().Row + 1,
		Node:      node,
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		fn.Name = GetNodeText(nameNode, source)
	}

	fn.Parameters = extractParameters(node, source, lang)

	fn.Body = node.ChildByFieldName("body")
	if fn.Body == nil {
		fn.Body = node.ChildByFieldName("block")
	}

	if lang == LangPython && fn.Body != nil {
		fn.Docstring = pythonDocstring(fn.Body, source)
	}

	return fn
}

// extractParameters returns the declared parameter names, in order.
func extractParameters(node *sitter.Node, source []byte, lang Language) []string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var names []string
	for i := range int(params.NamedChildCount()) {
		child := params.NamedChild(i)
		name := parameterName(child, source, lang)
		if name != "" && name != "self" && name != "cls" {
			names = append(names, name)
		}
	}
	return names
}

// parameterName resolves the identifier inside one parameter node, which
// may be wrapped in typed/default/variadic forms depending on language.
func parameterName(node *sitter.Node, source []byte, lang Language) string {
	switch node.Type() {
	case "identifier":
		return GetNodeText(node, source)
	case "typed_parameter", "default_parameter", "typed_default_parameter",
		"list_splat_pattern", "dictionary_splat_pattern",
		"optional_parameter", "required_parameter", "formal_parameter",
		"parameter", "self_parameter":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return GetNodeText(nameNode, source)
		}
		// Fall back to the first identifier child
		for i := range int(node.NamedChildCount()) {
			child := node.NamedChild(i)
			if child.Type() == "identifier" {
				return GetNodeText(child, source)
			}
		}
	case "parameter_declaration":
		// Go groups names: (a, b int)
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return GetNodeText(nameNode, source)
		}
	}
	return ""
}

// pythonDocstring returns the leading docstring of a function body, with
// quotes stripped, or empty when the first statement is not a string.
func pythonDocstring(body *sitter.Node, source []byte) string {
	if body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return stripStringQuotes(GetNodeText(str, source))
}

// stripStringQuotes removes surrounding quotes and string prefixes from a
// python string literal.
func stripStringQuotes(s string) string {
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return strings.TrimSpace(s)
}
