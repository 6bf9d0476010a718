package naming

import (
	"errors"
	"strings"
	"testing"
)

func TestSuggestDefaultTemplate(t *testing.T) {
	s, err := NewSuggester("")
	if err != nil {
		t.Fatalf("NewSuggester: %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"photos/summer-trip", "Summer Trip"},
		{"archive/old_scans", "Old Scans"},
		{"videos", "Videos"},
		{"a/b/c", "C"},
	}

	for _, tt := range tests {
		if got := s.Suggest(tt.path); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestSuggestCustomTemplate(t *testing.T) {
	s, err := NewSuggester(`{{ index .Segments 0 }} / {{ .Name }}`)
	if err != nil {
		t.Fatalf("NewSuggester: %v", err)
	}

	if got := s.Suggest("photos/2023/summer"); got != "photos / summer" {
		t.Errorf("Suggest = %q", got)
	}
}

func TestSuggestEmptyRenderFallsBack(t *testing.T) {
	s, err := NewSuggester(`{{ "" }}`)
	if err != nil {
		t.Fatalf("NewSuggester: %v", err)
	}

	if got := s.Suggest("photos/summer"); got != "summer" {
		t.Errorf("Suggest = %q, want fallback to base name", got)
	}
}

func TestSuggestExecuteErrorFallsBack(t *testing.T) {
	s, err := NewSuggester(`{{ index .Segments 99 }}`)
	if err != nil {
		t.Fatalf("NewSuggester: %v", err)
	}

	if got := s.Suggest("photos/summer"); got != "summer" {
		t.Errorf("Suggest = %q, want fallback to base name", got)
	}
}

func TestNewSuggesterParseError(t *testing.T) {
	if _, err := NewSuggester(`{{ .Name`); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "Summer Trip", nil},
		{"valid with unicode", "Fotos München", nil},
		{"empty", "", ErrEmptyName},
		{"whitespace only", "   ", ErrEmptyName},
		{"too long", strings.Repeat("x", MaxNameLength+1), ErrNameTooLong},
		{"at limit", strings.Repeat("x", MaxNameLength), nil},
		{"control char", "bad\x00name", ErrNameControlChar},
		{"tab inside", "bad\tname", ErrNameControlChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
