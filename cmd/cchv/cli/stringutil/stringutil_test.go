package stringutil

import "testing"

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no whitespace changes needed",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "newlines to space",
			input: "hello\nworld",
			want:  "hello world",
		},
		{
			name:  "multiple newlines",
			input: "hello\n\n\nworld",
			want:  "hello world",
		},
		{
			name:  "tabs to space",
			input: "hello\tworld",
			want:  "hello world",
		},
		{
			name:  "leading and trailing whitespace",
			input: "  hello world  ",
			want:  "hello world",
		},
		{
			name:  "multiline prompt",
			input: "Fix the bug\nin the login\npage",
			want:  "Fix the bug in the login page",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "  \n\t  ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollapseWhitespace(tt.input)
			if got != tt.want {
				t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		suffix   string
		want     string
	}{
		{
			name:     "ascii no truncation needed",
			input:    "hello",
			maxRunes: 10,
			suffix:   "...",
			want:     "hello",
		},
		{
			name:     "ascii truncation",
			input:    "hello world",
			maxRunes: 8,
			suffix:   "...",
			want:     "hello...",
		},
		{
			name:     "chinese characters longer",
			input:    "你好世界再见",
			maxRunes: 5,
			suffix:   "...",
			want:     "你好...",
		},
		{
			name:     "exact length",
			input:    "hello",
			maxRunes: 5,
			suffix:   "...",
			want:     "hello",
		},
		{
			name:     "no suffix",
			input:    "hello world",
			maxRunes: 5,
			suffix:   "",
			want:     "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.maxRunes, tt.suffix)
			if got != tt.want {
				t.Errorf("TruncateRunes(%q, %d, %q) = %q, want %q",
					tt.input, tt.maxRunes, tt.suffix, got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{
			name:     "multiline collapsed and truncated",
			input:    "first line\nsecond line\nthird line",
			maxRunes: 15,
			want:     "first line s...",
		},
		{
			name:     "short text unchanged",
			input:    "short",
			maxRunes: 20,
			want:     "short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Preview(tt.input, tt.maxRunes)
			if got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.input, tt.maxRunes, got, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("a\nb\nc"); got != "a" {
		t.Errorf("FirstLine() = %q, want %q", got, "a")
	}
	if got := FirstLine("  single  "); got != "single" {
		t.Errorf("FirstLine() = %q, want %q", got, "single")
	}
}

func TestValidUTF8(t *testing.T) {
	if got := ValidUTF8("plain"); got != "plain" {
		t.Errorf("ValidUTF8() = %q, want %q", got, "plain")
	}
	if got := ValidUTF8(string([]byte{0xff, 'a'})); got != "�a" {
		t.Errorf("ValidUTF8() = %q, want %q", got, "�a")
	}
}
