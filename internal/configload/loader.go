package configload

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/weiser-io/weiser/internal/errs"
)

// LoadOptions controls how a configuration tree is loaded.
type LoadOptions struct {
	// EnvFilePath, if set, is read and merged into the template-expansion
	// environment (file values take precedence over ambient environment
	// variables of the same name).
	EnvFilePath string
}

// Load reads path, expands {{ NAME }} templates, parses the YAML document,
// and recursively merges every file named in Includes (relative to the
// including file's directory). Returns a single merged Document.
func Load(path string, opts LoadOptions) (*Document, error) {
	env, err := LoadDotEnv(opts.EnvFilePath)
	if err != nil {
		return nil, err
	}
	return loadRecursive(path, env, map[string]bool{})
}

func loadRecursive(path string, env map[string]string, visited map[string]bool) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.ErrConfig("resolve path %s: %v", path, err)
	}
	if visited[abs] {
		return nil, errs.ErrConfig("include cycle detected at %s", path)
	}
	visited[abs] = true

	raw, err := os.ReadFile(path) //nolint:gosec // operator-controlled config path
	if err != nil {
		return nil, errs.ErrConfig("read %s: %v", path, err)
	}

	expanded, err := ExpandTemplate(string(raw), env)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, errs.ErrConfig("parse %s: %v", path, err)
	}

	dir := filepath.Dir(path)
	for _, inc := range doc.Includes {
		incPath := inc
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(dir, inc)
		}
		included, err := loadRecursive(incPath, env, visited)
		if err != nil {
			return nil, err
		}
		merge(&doc, included)
	}
	doc.Includes = nil

	return &doc, nil
}

// merge appends included's datasources, connections, and checks onto doc.
// The including document's own version wins if included declares a
// different one.
func merge(doc, included *Document) {
	doc.Datasources = append(doc.Datasources, included.Datasources...)
	doc.Connections = append(doc.Connections, included.Connections...)
	doc.Checks = append(doc.Checks, included.Checks...)
	if doc.SlackURL == "" {
		doc.SlackURL = included.SlackURL
	}
}
