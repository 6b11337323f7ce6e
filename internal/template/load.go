package template

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

var (
	defaultOnce     sync.Once
	defaultTemplate Template
	defaultErr      error
)

// Default returns a copy of the bundled evaluation template.
// It panics if the bundled template cannot be parsed, which only happens when the
// embedded file itself is broken.
func Default() Template {
	defaultOnce.Do(func() {
		defaultTemplate, defaultErr = Parse(defaultYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("template: bundled template is invalid: %v", defaultErr))
	}
	return defaultTemplate.clone()
}

// Parse decodes and normalizes a YAML template document.
func Parse(data []byte) (Template, error) {
	var tmpl Template
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&tmpl); err != nil {
		return Template{}, fmt.Errorf("parse template: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Template{}, fmt.Errorf("parse template: multiple documents are not supported")
		}
		return Template{}, fmt.Errorf("parse template: %w", err)
	}
	return Normalize(tmpl)
}
