package entities

import (
	"reflect"
	"testing"
)

func TestFindNextShortcode_Inline(t *testing.T) {
	text := `before {{ youtube(id="abc123") }} after`
	m, ok := FindNextShortcode(text, 0)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Name != "youtube" {
		t.Errorf("Name = %q, want youtube", m.Name)
	}
	if want := map[string]string{"id": "abc123"}; !reflect.DeepEqual(m.Args, want) {
		t.Errorf("Args = %v, want %v", m.Args, want)
	}
	if text[m.Start:m.End] != `{{ youtube(id="abc123") }}` {
		t.Errorf("match range = %q", text[m.Start:m.End])
	}
}

func TestFindNextShortcode_Block(t *testing.T) {
	text := `{% note(kind="warning") %}be careful{% end %}`
	m, ok := FindNextShortcode(text, 0)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Name != "note" {
		t.Errorf("Name = %q, want note", m.Name)
	}
	if m.Body != "be careful" {
		t.Errorf("Body = %q", m.Body)
	}
	if m.Start != 0 || m.End != len(text) {
		t.Errorf("match range = [%d,%d), want [0,%d)", m.Start, m.End, len(text))
	}
}

func TestFindNextShortcode_NoArgs(t *testing.T) {
	m, ok := FindNextShortcode("{{ toc() }}", 0)
	if !ok || m.Name != "toc" || len(m.Args) != 0 {
		t.Fatalf("got %+v, %v", m, ok)
	}
}

func TestFindNextShortcode_NoneFound(t *testing.T) {
	if _, ok := FindNextShortcode("plain markdown, no tags here", 0); ok {
		t.Fatal("expected no match")
	}
}

func TestFindNextShortcode_UnterminatedTagSkipped(t *testing.T) {
	text := `{{ broken( and more text`
	if _, ok := FindNextShortcode(text, 0); ok {
		t.Fatal("an unterminated tag must not be reported as a match")
	}
}

func TestFindNextShortcode_FromOffsetSkipsEarlierMatch(t *testing.T) {
	text := `{{ a() }} middle {{ b() }}`
	first, _ := FindNextShortcode(text, 0)
	second, ok := FindNextShortcode(text, first.End)
	if !ok || second.Name != "b" {
		t.Fatalf("got %+v, %v", second, ok)
	}
}
