// Package site renders and writes the host page that loads the generated web-assembly
// bindings in a browser.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	NamePlaceholder = "{{name}}"
	CSSPlaceholder  = "{{css}}"

	// styleTerminator would close the page's style element early.
	styleTerminator = "</style>"

	// PageName is the host page file name inside the staging directory.
	PageName = "index.html"
)

// ErrStyleTerminator is returned by CheckStyle for fragments that close the style element.
var ErrStyleTerminator = errors.New("css fragment must not contain " + styleTerminator)

//go:embed assets/index.html
var pageTemplate string

// CheckStyle rejects CSS fragments containing the literal closing style tag. The fragment
// is embedded unescaped, so this only guards against accidental markup from a trusted
// caller and is not a sanitizer.
func CheckStyle(css string) error {
	if strings.Contains(css, styleTerminator) {
		return ErrStyleTerminator
	}
	return nil
}

// Render substitutes the unit name and CSS fragment into the host page template.
// The replacement is a single left-to-right pass: substituted text is never scanned
// again, so neither value can produce a placeholder for the other.
func Render(name, css string) string {
	return strings.NewReplacer(NamePlaceholder, name, CSSPlaceholder, css).Replace(pageTemplate)
}

// Write stores page as the host page in dir, replacing any previous one.
func Write(dir, page string) (string, error) {
	path := filepath.Join(dir, PageName)
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil { // #nosec G306 -- served to browsers
		return "", fmt.Errorf("write host page: %w", err)
	}
	return path, nil
}
