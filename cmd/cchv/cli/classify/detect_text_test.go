package classify

import "testing"

func TestIsSessionHistory(t *testing.T) {
	t.Parallel()

	chatLine := `{"type":"user","message":{"role":"user","content":"hi"}}`
	assistantLine := `{"type":"assistant","message":{"role":"assistant","content":"hello"}}`

	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "two_chat_lines",
			text: chatLine + "\n" + assistantLine,
			want: true,
		},
		{
			name: "single_line_rejected",
			text: chatLine,
			want: false,
		},
		{
			name: "one_bad_line_disqualifies_everything",
			text: chatLine + "\nnot json at all",
			want: false,
		},
		{
			name: "bad_line_in_middle",
			text: chatLine + "\n{broken\n" + assistantLine,
			want: false,
		},
		{
			name: "blank_lines_ignored",
			text: chatLine + "\n\n\n" + assistantLine + "\n",
			want: true,
		},
		{
			name: "content_field_instead_of_message",
			text: `{"type":"user","content":"hi"}` + "\n" + `{"type":"assistant","content":"yo"}`,
			want: true,
		},
		{
			name: "chat_lines_below_half",
			text: chatLine + "\n" + assistantLine + "\n{\"a\":1}\n{\"b\":2}\n{\"c\":3}",
			want: false,
		},
		{
			name: "chat_lines_exactly_half",
			text: chatLine + "\n" + assistantLine + "\n{\"a\":1}\n{\"b\":2}",
			want: true,
		},
		{
			name: "only_one_chat_line_among_json",
			text: chatLine + "\n{\"a\":1}",
			want: false,
		},
		{
			name: "type_without_message_or_content",
			text: `{"type":"user"}` + "\n" + `{"type":"assistant"}`,
			want: false,
		},
		{
			name: "summary_type_not_chat",
			text: `{"type":"summary","summary":"s"}` + "\n" + `{"type":"summary","summary":"t"}`,
			want: false,
		},
		{
			name: "json_numbers_parse_but_are_not_chat",
			text: "1\n2\n3",
			want: false,
		},
		{
			name: "empty_text",
			text: "",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isSessionHistory(tt.text); got != tt.want {
				t.Errorf("isSessionHistory(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsNumberedContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "two_gutter_lines",
			text: "1→package main\n2→",
			want: true,
		},
		{
			name: "leading_whitespace_before_number",
			text: "   10→foo\n   11→bar",
			want: true,
		},
		{
			name: "single_line_rejected",
			text: "12→foo",
			want: false,
		},
		{
			name: "one_gutter_line_among_three",
			text: "12→foo\nplain line\nanother",
			want: false,
		},
		{
			name: "ascii_arrow_does_not_count",
			text: "1->foo\n2->bar",
			want: false,
		},
		{
			name: "gutter_mid_line_does_not_count",
			text: "see 12→foo\nand 13→bar",
			want: false,
		},
		{
			name: "empty_text",
			text: "",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isNumberedContent(tt.text); got != tt.want {
				t.Errorf("isNumberedContent(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsFileSearchOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "found_files_header",
			text: "Found 3 files\n/a/b.c\n/a/c.c",
			want: true,
		},
		{
			name: "header_is_case_insensitive",
			text: "found 1 file",
			want: true,
		},
		{
			name: "header_must_be_first_line",
			text: "results:\nFound 3 files",
			want: false,
		},
		{
			name: "source_path_on_later_line",
			text: "matches:\nsrc/main.go\ndone",
			want: true,
		},
		{
			name: "source_path_needs_three_lines",
			text: "matches:\nsrc/main.go",
			want: false,
		},
		{
			name: "source_path_on_first_line_only",
			text: "src/main.go\nplain\nplain",
			want: false,
		},
		{
			name: "unrecognized_extension",
			text: "matches:\nsrc/main.c\ndone",
			want: false,
		},
		{
			name: "windows_separator",
			text: "matches:\nsrc\\app.ts\ndone",
			want: true,
		},
		{
			name: "extension_must_terminate_word",
			text: "matches:\nsrc/main.gox\ndone",
			want: false,
		},
		{
			name: "plain_prose",
			text: "nothing here\nat all\nreally",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isFileSearchOutput(tt.text); got != tt.want {
				t.Errorf("isFileSearchOutput(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsErrorText(t *testing.T) {
	t.Parallel()

	if !isErrorText("Error: boom") {
		t.Error("expected prefixed string to match")
	}
	if isErrorText("error: boom") {
		t.Error("prefix check is case-sensitive")
	}
	if isErrorText("fatal: boom") {
		t.Error("unexpected match without prefix")
	}
}
