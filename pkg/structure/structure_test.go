package structure

import (
	"errors"
	"strings"
	"testing"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a := New()
	t.Cleanup(a.Close)
	return a
}

func TestComplexity_StraightLine(t *testing.T) {
	a := newTestAnalyzer(t)

	code := "def f(x):\n    return x + 1\n"
	got, err := a.Complexity(code, "python")
	if err != nil {
		t.Fatalf("Complexity() error: %v", err)
	}
	if got != 1 {
		t.Errorf("Complexity() = %v, want 1 for straight-line code", got)
	}
}

func TestComplexity_Branches(t *testing.T) {
	a := newTestAnalyzer(t)

	code := `def classify(x):
    if x > 10:
        return "big"
    elif x > 0:
        return "small"
    return "negative"
`
	got, err := a.Complexity(code, "python")
	if err != nil {
		t.Fatalf("Complexity() error: %v", err)
	}
	// if + elif
	if got != 3 {
		t.Errorf("Complexity() = %v, want 3", got)
	}
}

func TestComplexity_BooleanOperators(t *testing.T) {
	a := newTestAnalyzer(t)

	code := "def f(a, b):\n    if a and b:\n        return 1\n    return 0\n"
	got, err := a.Complexity(code, "python")
	if err != nil {
		t.Fatalf("Complexity() error: %v", err)
	}
	// if + and
	if got != 3 {
		t.Errorf("Complexity() = %v, want 3", got)
	}
}

func TestComplexity_ParseFailure(t *testing.T) {
	a := newTestAnalyzer(t)

	got, err := a.Complexity("def broken(:\n    ???\n", "python")
	if !errors.Is(err, ErrParseFailure) {
		t.Fatalf("Complexity() error = %v, want ErrParseFailure", err)
	}
	if got != 1 {
		t.Errorf("Complexity() = %v, want default 1 on parse failure", got)
	}
}

func TestComplexity_GoSnippet(t *testing.T) {
	a := newTestAnalyzer(t)

	code := `package main

func grade(n int) string {
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			continue
		}
	}
	return "done"
}
`
	got, err := a.Complexity(code, "go")
	if err != nil {
		t.Fatalf("Complexity() error: %v", err)
	}
	// for + if
	if got != 3 {
		t.Errorf("Complexity() = %v, want 3", got)
	}
}

func TestStrategy_FallsBackToHeuristic(t *testing.T) {
	a := newTestAnalyzer(t)

	s := a.Strategy("ruby")
	if _, ok := s.(heuristicStrategy); !ok {
		t.Fatalf("Strategy(ruby) = %T, want heuristicStrategy", s)
	}

	got, err := s.Complexity([]byte("x = 1 if cond else 2 ; y = a and b"))
	if err != nil {
		t.Fatalf("heuristic Complexity() error: %v", err)
	}
	// " if " + " and "
	if got != 3 {
		t.Errorf("heuristic Complexity() = %v, want 3", got)
	}
}

func TestNestingDepth(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name string
		code string
		want int
	}{
		{
			name: "flat module",
			code: "x = 1\ny = 2\n",
			want: 0,
		},
		{
			name: "function only",
			code: "def f():\n    return 1\n",
			want: 1,
		},
		{
			name: "loop in branch in function",
			code: "def f(xs):\n    if xs:\n        for x in xs:\n            print(x)\n",
			want: 3,
		},
		{
			// The try statement counts once; its except clause does not
			// add a second level for the same block.
			name: "try except counts one level",
			code: "def f(x):\n    try:\n        return int(x)\n    except ValueError:\n        return 0\n",
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.NestingDepth(tt.code, "python")
			if err != nil {
				t.Fatalf("NestingDepth() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NestingDepth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNestingDepth_ParseFailure(t *testing.T) {
	a := newTestAnalyzer(t)

	got, err := a.NestingDepth("def f(:\n", "python")
	if !errors.Is(err, ErrParseFailure) {
		t.Fatalf("NestingDepth() error = %v, want ErrParseFailure", err)
	}
	if got != 0 {
		t.Errorf("NestingDepth() = %d, want default 0 on parse failure", got)
	}

	if _, err := a.NestingDepth("anything", "cobol"); !errors.Is(err, ErrParseFailure) {
		t.Errorf("NestingDepth(unknown lang) error = %v, want ErrParseFailure", err)
	}
}

func TestEquivalent(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name       string
		codeA      string
		codeB      string
		wantEquiv  bool
		wantReason EquivalenceReason
	}{
		{
			name:       "identical",
			codeA:      "def f():\n    return 1\n",
			codeB:      "def f():\n    return 1\n",
			wantEquiv:  true,
			wantReason: ReasonEquivalent,
		},
		{
			name:       "blank lines ignored",
			codeA:      "x = 1\ny = 2\n",
			codeB:      "x = 1\n\n\ny = 2\n",
			wantEquiv:  true,
			wantReason: ReasonEquivalent,
		},
		{
			name:       "different literal",
			codeA:      "def f():\n    return 1\n",
			codeB:      "def f():\n    return 2\n",
			wantEquiv:  false,
			wantReason: ReasonNotEquiv,
		},
		{
			name:       "parse error",
			codeA:      "def f(:\n",
			codeB:      "def f():\n    return 1\n",
			wantEquiv:  false,
			wantReason: ReasonParseError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equiv, reason := a.Equivalent(tt.codeA, tt.codeB, "python")
			if equiv != tt.wantEquiv || reason != tt.wantReason {
				t.Errorf("Equivalent() = (%v, %s), want (%v, %s)",
					equiv, reason, tt.wantEquiv, tt.wantReason)
			}
		})
	}
}

func TestSplit_CandidatesReparse(t *testing.T) {
	a := newTestAnalyzer(t)

	code := `def add(a, b):
    total = a + b
    if total > 10:
        return total
    return 0
`
	candidates := a.Split(code, "python")
	if len(candidates) == 0 {
		t.Fatal("Split() returned no candidates")
	}

	var sawControlFlow bool
	for _, cand := range candidates {
		if cand.Prefix == "" || cand.Completion == "" {
			t.Errorf("candidate %s has empty side", cand.Type)
		}
		if !a.reparses(cand.Prefix+cand.Completion, "python") {
			t.Errorf("candidate %s does not reparse", cand.Type)
		}
		if cand.Type == SplitControlFlow {
			sawControlFlow = true
		}
	}
	if !sawControlFlow {
		t.Error("expected a control_flow candidate for the if block")
	}
}

func TestSplit_ParseFailureReturnsNil(t *testing.T) {
	a := newTestAnalyzer(t)

	if got := a.Split("def broken(:\n    pass\n", "python"); got != nil {
		t.Errorf("Split() = %v, want nil for unparseable input", got)
	}
	if got := a.Split("whatever", "cobol"); got != nil {
		t.Errorf("Split() = %v, want nil for unknown language", got)
	}
}

func TestFunctionInfo(t *testing.T) {
	a := newTestAnalyzer(t)

	code := `def fetch(url, timeout):
    """Fetch a URL.

    Args:
        url: target address
        timeout: seconds to wait
    """
    return get(url, timeout)
`
	name, params, doc, err := a.FunctionInfo(code, "python")
	if err != nil {
		t.Fatalf("FunctionInfo() error: %v", err)
	}
	if name != "fetch" {
		t.Errorf("name = %q, want fetch", name)
	}
	if len(params) != 2 || params[0] != "url" || params[1] != "timeout" {
		t.Errorf("params = %v, want [url timeout]", params)
	}
	if !strings.Contains(doc, "Fetch a URL") {
		t.Errorf("docstring = %q, want the extracted body", doc)
	}
}

func TestFunctionInfo_NoFunction(t *testing.T) {
	a := newTestAnalyzer(t)

	name, params, doc, err := a.FunctionInfo("x = 1\n", "python")
	if err != nil {
		t.Fatalf("FunctionInfo() error: %v", err)
	}
	if name != "" || params != nil || doc != "" {
		t.Errorf("FunctionInfo() = (%q, %v, %q), want empties", name, params, doc)
	}
}
