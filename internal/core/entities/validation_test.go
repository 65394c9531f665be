package entities

import "testing"

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid absolute", "/a/b/post.html", false},
		{"valid relative", "a/b/post.html", false},
		{"empty", "", true},
		{"traversal segment", "../../../etc/passwd", true},
		{"traversal in middle", "/a/../b", true},
		{"dotdot as substring, not segment", "/a..b/c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
