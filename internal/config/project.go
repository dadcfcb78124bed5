package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the optional per-workspace settings file, looked up in the workspace root.
const ProjectFileName = "runwasm.yaml"

// Project holds the settings read from runwasm.yaml.
type Project struct {
	// CSS is embedded verbatim into the host page's style element.
	CSS string `yaml:"css"`
	// CSSFile is read when CSS is empty. Relative paths resolve against the workspace root.
	CSSFile string `yaml:"css_file"`
}

// LoadProject reads runwasm.yaml from root. A missing file yields an empty Project.
func LoadProject(root string) (Project, error) {
	var p Project
	f, err := os.Open(filepath.Join(root, ProjectFileName))
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("open project file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return p, fmt.Errorf("parse %s: %w", ProjectFileName, err)
	}
	return p, nil
}

// StyleFragment returns the CSS fragment configured for the project.
func (p Project) StyleFragment(root string) (string, error) {
	if p.CSS != "" || p.CSSFile == "" {
		return p.CSS, nil
	}
	path := p.CSSFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read css_file: %w", err)
	}
	return string(data), nil
}
