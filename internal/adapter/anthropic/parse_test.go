package anthropic

import (
	"testing"
)

func TestParseModerationVerdict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		response    string
		wantValid   bool
		wantReasons string
		wantErr     bool
	}{
		{
			name:      "clean verdict",
			response:  `{"valid": true, "reasons": ""}`,
			wantValid: true,
		},
		{
			name:        "rejection with reasons",
			response:    `{"valid": false, "reasons": "hate speech"}`,
			wantValid:   false,
			wantReasons: "hate speech",
		},
		{
			name:      "verdict wrapped in prose",
			response:  "Here is my verdict:\n```json\n{\"valid\": true, \"reasons\": \"\"}\n```\nLet me know if you need anything else.",
			wantValid: true,
		},
		{
			name:     "no json at all",
			response: "I cannot review this post.",
			wantErr:  true,
		},
		{
			name:     "malformed json",
			response: `{"valid": tru`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseModerationVerdict(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Valid != tt.wantValid {
				t.Errorf("valid: got %v, want %v", got.Valid, tt.wantValid)
			}
			if got.Reasons != tt.wantReasons {
				t.Errorf("reasons: got %q, want %q", got.Reasons, tt.wantReasons)
			}
		})
	}
}

func TestParseTopicList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     []string
		wantErr  bool
	}{
		{
			name:     "plain array",
			response: `["Academics", "Housing"]`,
			want:     []string{"Academics", "Housing"},
		},
		{
			name:     "array wrapped in prose and fencing",
			response: "Sure!\n```json\n[\"Sports\"]\n```",
			want:     []string{"Sports"},
		},
		{
			name:     "blank names dropped",
			response: `["Academics", "", "  "]`,
			want:     []string{"Academics"},
		},
		{
			name:     "empty array",
			response: `[]`,
			want:     nil,
		},
		{
			name:     "no array",
			response: "none of the topics fit",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseTopicList(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("names: got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("names: got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCleanSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already clean", in: "Finals start Monday.", want: "Finals start Monday."},
		{name: "surrounding whitespace", in: "  Finals start Monday.\n", want: "Finals start Monday."},
		{name: "quoted", in: `"Finals start Monday."`, want: "Finals start Monday."},
		{name: "fenced", in: "```\nFinals start Monday.\n```", want: "Finals start Monday."},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := cleanSummary(tt.in); got != tt.want {
				t.Errorf("cleanSummary(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	got, err := extractJSON(`prefix {"a": {"b": 1}} suffix`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a": {"b": 1}}` {
		t.Errorf("extractJSON: got %q", got)
	}

	if _, err := extractJSON("} {"); err == nil {
		t.Error("reversed braces must be an error")
	}
}
