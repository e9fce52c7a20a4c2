package minhash

import (
	"strings"
	"testing"
)

func TestBuild_Deterministic(t *testing.T) {
	b := NewBuilder(3, 64)
	text := "def add a b return a plus b"

	sig1 := b.Build(text)
	sig2 := b.Build(text)

	if len(sig1) != 64 {
		t.Fatalf("signature width = %d, want 64", len(sig1))
	}
	for i := range sig1 {
		if sig1[i] != sig2[i] {
			t.Fatalf("signature slot %d differs across builds", i)
		}
	}
}

func TestBuild_FewerTokensThanShingle(t *testing.T) {
	b := NewBuilder(7, 64)
	if sig := b.Build("one two three"); sig != nil {
		t.Errorf("Build() = %v, want nil for sub-shingle input", sig)
	}
	if sig := b.Build(""); sig != nil {
		t.Errorf("Build() = %v, want nil for empty input", sig)
	}
}

func TestBuild_ExactShingleCount(t *testing.T) {
	b := NewBuilder(3, 32)
	if sig := b.Build("one two three"); len(sig) != 32 {
		t.Errorf("signature width = %d, want 32 for exactly k tokens", len(sig))
	}
}

func TestBuild_WhitespaceInsensitiveTokenization(t *testing.T) {
	b := NewBuilder(2, 32)
	sig1 := b.Build("alpha  beta\tgamma")
	sig2 := b.Build("alpha beta gamma")
	for i := range sig1 {
		if sig1[i] != sig2[i] {
			t.Fatal("token runs split differently across whitespace forms")
		}
	}
}

func TestSimilarity_Identical(t *testing.T) {
	b := NewBuilder(3, 64)
	sig := b.Build("a b c d e f g h")
	if got := Similarity(sig, sig); got != 1.0 {
		t.Errorf("Similarity(x, x) = %f, want 1.0", got)
	}
}

func TestSimilarity_EmptyOrMismatched(t *testing.T) {
	b := NewBuilder(3, 64)
	sig := b.Build("a b c d e")

	if got := Similarity(nil, sig); got != 0 {
		t.Errorf("Similarity(nil, sig) = %f, want 0", got)
	}
	if got := Similarity(sig, nil); got != 0 {
		t.Errorf("Similarity(sig, nil) = %f, want 0", got)
	}

	short := NewBuilder(3, 32).Build("a b c d e")
	if got := Similarity(sig, short); got != 0 {
		t.Errorf("Similarity across widths = %f, want 0", got)
	}
}

func TestSimilarity_TracksOverlap(t *testing.T) {
	b := NewBuilder(2, 128)

	base := strings.Repeat("alpha beta gamma delta epsilon ", 4)
	near := base + "zeta"
	far := "totally different tokens in every single position here now"

	simNear := Similarity(b.Build(base), b.Build(near))
	simFar := Similarity(b.Build(base), b.Build(far))

	if simNear <= simFar {
		t.Errorf("similar pair scored %f, dissimilar pair %f", simNear, simFar)
	}
	if simNear < 0.5 {
		t.Errorf("near-identical pair scored %f, want >= 0.5", simNear)
	}
}
