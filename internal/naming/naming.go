// Package naming suggests and validates collection names for folder paths.
// Suggestions come from a user-configurable text/template rendered with the
// sprout function set, so templates like {{ .Name | title }} work out of the
// box.
package naming

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/go-sprout/sprout/sprigin"

	"github.com/curatorlabs/curator/internal/inventory"
)

// DefaultTemplate turns the folder's own name into a presentable collection
// name: "2023/summer-trip" suggests "Summer Trip".
const DefaultTemplate = `{{ .Name | replace "-" " " | replace "_" " " | title }}`

// MaxNameLength is the longest accepted collection name, in runes.
const MaxNameLength = 128

// Validation errors for collection names.
var (
	ErrEmptyName       = errors.New("name must not be empty")
	ErrNameTooLong     = fmt.Errorf("name must be at most %d characters", MaxNameLength)
	ErrNameControlChar = errors.New("name must not contain control characters")
)

// templateContext is the data available to name-suggestion templates.
type templateContext struct {
	Path     string
	Name     string
	Segments []string
}

// Suggester renders one suggestion template per wizard session.
type Suggester struct {
	tpl *template.Template
}

// NewSuggester parses the template source. An empty source falls back to
// DefaultTemplate.
func NewSuggester(src string) (*Suggester, error) {
	if src == "" {
		src = DefaultTemplate
	}

	tpl, err := template.New("collection-name").Funcs(sprigin.TxtFuncMap()).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing name template: %w", err)
	}

	return &Suggester{tpl: tpl}, nil
}

// Suggest renders a default collection name for a folder path. A template
// that renders to whitespace falls back to the folder's own name, so drafts
// always start with something editable.
func (s *Suggester) Suggest(path string) string {
	ctx := templateContext{
		Path:     path,
		Name:     inventory.BaseName(path),
		Segments: inventory.Segments(path),
	}

	var b strings.Builder
	if err := s.tpl.Execute(&b, ctx); err != nil {
		return ctx.Name
	}

	name := strings.TrimSpace(b.String())
	if name == "" {
		return ctx.Name
	}

	return name
}

// ValidateName checks a collection name for submission. It returns nil for
// valid names and a descriptive error otherwise.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	if len([]rune(trimmed)) > MaxNameLength {
		return ErrNameTooLong
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return ErrNameControlChar
		}
	}

	return nil
}
