package minhash

import (
	"fmt"
	"strings"
	"testing"
)

// manyTokens returns n distinct tokens, giving near-duplicate pairs a
// Jaccard similarity close to 1 so banding recall is not a coin flip.
func manyTokens(n int) []string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("tok%02d", i)
	}
	return tokens
}

func TestNewIndex_BandParameters(t *testing.T) {
	x := NewIndex(0.85, 128)

	if x.Bands() < 1 || x.RowsPerBand() < 1 {
		t.Fatalf("bands = %d, rows = %d, want both >= 1", x.Bands(), x.RowsPerBand())
	}
	if x.Bands()*x.RowsPerBand() > 128 {
		t.Errorf("bands*rows = %d exceeds signature width", x.Bands()*x.RowsPerBand())
	}
}

func TestAdmit_FirstSeenWins(t *testing.T) {
	b := NewBuilder(2, 128)
	x := NewIndex(0.85, 128)

	sig := b.Build("def add a b return a plus b end of function body")
	if !x.Admit(sig) {
		t.Fatal("first signature was rejected")
	}
	if x.Admit(sig) {
		t.Error("identical signature admitted twice")
	}
}

func TestAdmit_DistinctSnippetsKept(t *testing.T) {
	b := NewBuilder(2, 128)
	x := NewIndex(0.85, 128)

	snippets := []string{
		"def add a b return the sum of both arguments here",
		"class parser init tokens stream position tracking state machine",
		"for item in collection yield transform item with mapping function",
	}
	for i, s := range snippets {
		if !x.Admit(b.Build(s)) {
			t.Errorf("distinct snippet %d was rejected", i)
		}
	}
}

func TestAdmit_NearDuplicateRejected(t *testing.T) {
	b := NewBuilder(2, 128)
	x := NewIndex(0.7, 128)

	base := strings.Join(manyTokens(40), " ")
	variant := base + " extra"

	if !x.Admit(b.Build(base)) {
		t.Fatal("base snippet was rejected")
	}
	if x.Admit(b.Build(variant)) {
		t.Error("near-duplicate variant was kept")
	}
}

func TestAdmit_NilSignatureAlwaysKept(t *testing.T) {
	x := NewIndex(0.85, 128)

	if !x.Admit(nil) {
		t.Error("nil signature rejected")
	}
	if !x.Admit(nil) {
		t.Error("second nil signature rejected; sub-shingle records never collide")
	}
}

func TestAdmit_ThresholdMonotonic(t *testing.T) {
	// For a fixed input and signature width, raising the threshold can
	// only keep more: a pair rejected at a high threshold matches at
	// least that similarity, so it is rejected at every lower one.
	b := NewBuilder(2, 128)

	base := manyTokens(40)
	medium := append([]string{}, base[:34]...)
	for i := 0; i < 6; i++ {
		medium = append(medium, fmt.Sprintf("alt%02d", i))
	}
	other := make([]string, 30)
	for i := range other {
		other[i] = fmt.Sprintf("far%02d", i)
	}

	texts := []string{
		strings.Join(base, " "),
		strings.Join(base, " ") + " extra",
		strings.Join(medium, " "),
		strings.Join(other, " "),
		strings.Join(other, " ") + " tail",
	}
	sigs := make([][]uint64, len(texts))
	for i, text := range texts {
		sigs[i] = b.Build(text)
	}

	prev := -1
	for _, threshold := range []float64{0.5, 0.6, 0.7, 0.8, 0.9, 0.95} {
		x := NewIndex(threshold, 128)
		kept := 0
		for _, sig := range sigs {
			if x.Admit(sig) {
				kept++
			}
		}
		if prev >= 0 && kept < prev {
			t.Errorf("kept count fell from %d to %d at threshold %v", prev, kept, threshold)
		}
		prev = kept
	}
}

func TestAdmit_OrderDependent(t *testing.T) {
	// Whichever of two near-duplicates arrives first is the one kept.
	b := NewBuilder(2, 128)
	base := strings.Join(manyTokens(40), " ")
	variant := base + " omega"

	x1 := NewIndex(0.7, 128)
	x1.Admit(b.Build(base))
	keptVariant := x1.Admit(b.Build(variant))

	x2 := NewIndex(0.7, 128)
	x2.Admit(b.Build(variant))
	keptBase := x2.Admit(b.Build(base))

	if keptVariant || keptBase {
		t.Errorf("second arrival survived in both orders: variant=%v base=%v", keptVariant, keptBase)
	}
}
