package command

import "testing"

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		value  string
		strict bool
		want   bool
	}{
		{"Mozilla.Firefox", true, true},
		{"7zip", true, true},
		{"git.install", true, true},
		{"  Mozilla.Firefox  ", true, true},
		{"Mozilla Firefox", true, false},
		{"Mozilla Firefox", false, true},
		{"", true, false},
		{"   ", true, false},
		{"", false, false},
		{"foo;rm -rf", true, false},
		{"foo&bar", false, false},
		{"foo|bar", true, false},
		{"$(whoami)", true, false},
		{"`id`", true, false},
		{"a\"b", true, false},
		{"Microsoft.VisualStudioCode_x64-1", true, true},
	}

	for _, tt := range tests {
		if got := ValidateIdentifier(tt.value, tt.strict); got != tt.want {
			t.Errorf("ValidateIdentifier(%q, %v) = %v, want %v", tt.value, tt.strict, got, tt.want)
		}
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"firefox", true},
		{"visual studio", true},
		{"", false},
		{"   ", false},
		{"a;b", false},
		{"a&b", false},
		{"a|b", false},
		{"foo$bar", true},
	}

	for _, tt := range tests {
		if got := ValidateQuery(tt.value); got != tt.want {
			t.Errorf("ValidateQuery(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"firefox", "firefox"},
		{"fire$(fox)", "firefox"},
		{"a`b`c", "abc"},
		{`say "hi"`, "say hi"},
		{"it's", "its"},
		{`back\slash`, "backslash"},
		{"<in>out", "inout"},
		{"a;b&c|d", "abcd"},
	}

	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
