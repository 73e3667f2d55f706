package parser

import (
	"testing"
)

func TestExtract_Simple(t *testing.T) {
	refs := NewLinkExtractor().Extract("This is a [[test]] link.")
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d, want 1", len(refs))
	}
	if refs[0].Target != "test" {
		t.Errorf("target = %q", refs[0].Target)
	}
	if refs[0].Display != nil {
		t.Errorf("display = %q, want absent", *refs[0].Display)
	}
	if refs[0].Offset != 10 {
		t.Errorf("offset = %d, want 10", refs[0].Offset)
	}
}

func TestExtract_WithDisplay(t *testing.T) {
	refs := NewLinkExtractor().Extract("See [[target|display text]].")
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d, want 1", len(refs))
	}
	if refs[0].Target != "target" {
		t.Errorf("target = %q", refs[0].Target)
	}
	if refs[0].Display == nil || *refs[0].Display != "display text" {
		t.Errorf("display = %v, want %q", refs[0].Display, "display text")
	}
}

func TestExtract_MultipleInOrder(t *testing.T) {
	text := "Links: [[one]], [[two]], and [[three|3]]."
	refs := NewLinkExtractor().Extract(text)
	if len(refs) != 3 {
		t.Fatalf("len(refs) = %d, want 3", len(refs))
	}
	want := []string{"one", "two", "three"}
	prev := -1
	for i, r := range refs {
		if r.Target != want[i] {
			t.Errorf("refs[%d].Target = %q, want %q", i, r.Target, want[i])
		}
		if r.Offset <= prev || r.Offset >= len(text) {
			t.Errorf("refs[%d].Offset = %d not increasing within text", i, r.Offset)
		}
		if text[r.Offset:r.Offset+2] != "[[" {
			t.Errorf("refs[%d].Offset does not point at [[", i)
		}
		prev = r.Offset
	}
	if refs[2].Display == nil || *refs[2].Display != "3" {
		t.Errorf("refs[2].Display = %v", refs[2].Display)
	}
}

func TestExtract_TrimsWhitespace(t *testing.T) {
	refs := NewLinkExtractor().Extract("[[  spaced note  |  shown  ]]")
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d", len(refs))
	}
	if refs[0].Target != "spaced note" || refs[0].Display == nil || *refs[0].Display != "shown" {
		t.Errorf("ref = %+v", refs[0])
	}
}

func TestExtract_ByteOffsets(t *testing.T) {
	text := "héllo [[x]]"
	refs := NewLinkExtractor().Extract(text)
	if len(refs) != 1 || refs[0].Offset != 7 {
		t.Errorf("refs = %+v, want offset 7", refs)
	}
}

func TestExtract_Malformed(t *testing.T) {
	cases := []string{
		"no links here",
		"[[unclosed",
		"[single]",
		"[[a|]]",
		"[[]]",
	}
	e := NewLinkExtractor()
	for _, c := range cases {
		if refs := e.Extract(c); len(refs) != 0 {
			t.Errorf("Extract(%q) = %+v, want none", c, refs)
		}
	}
}

func TestExtract_NestedBracketsDoNotThrow(t *testing.T) {
	refs := NewLinkExtractor().Extract("[[outer [[inner]] tail]]")
	if len(refs) != 1 || refs[0].Offset != 0 {
		t.Errorf("refs = %+v, want a single leftmost match", refs)
	}
}

func TestExtract_WhitespaceTargetKeptEmpty(t *testing.T) {
	refs := NewLinkExtractor().Extract("x [[ ]] y")
	if len(refs) != 1 || refs[0].Target != "" || refs[0].Offset != 2 {
		t.Fatalf("refs = %+v", refs)
	}
}
