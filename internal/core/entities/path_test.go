package entities

import "testing"

func TestPath_Abs(t *testing.T) {
	p := NewPath[MdKind]("/proj", "content", "a/b/post.md")
	if got, want := p.Abs(), "/proj/content/a/b/post.md"; got != want {
		t.Errorf("Abs() = %q, want %q", got, want)
	}
}

func TestPath_RelTo(t *testing.T) {
	p := NewPath[MdKind]("/proj", "content", "a/b/post.md")
	if got, want := p.RelTo(".html"), "a/b/post.html"; got != want {
		t.Errorf("RelTo(.html) = %q, want %q", got, want)
	}
}

func TestPath_Retag(t *testing.T) {
	md := NewPath[MdKind]("/proj", "content", "post.md")
	html := Retag[MdKind, HtmlKind](md)
	if html.Abs() != md.Abs() {
		t.Errorf("Retag must preserve the path segments")
	}
}

func TestPath_Confirmed(t *testing.T) {
	p := NewPath[MdKind]("/proj", "content", "post.md")
	if p.Checked() {
		t.Fatal("new path must be unchecked")
	}
	cp := p.WithConfirmed()
	if !cp.Checked() {
		t.Fatal("WithConfirmed must mark the path checked")
	}
	if p.Checked() {
		t.Fatal("WithConfirmed must not mutate the receiver")
	}
}
