package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source is where an effective value came from.
type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	if s.Kind == SourceFile {
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
	return string(s.Kind)
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML path -> file that last set it
	Files   []string          // every file merged, in merge order
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "cursorsense", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads the standard config and remembers where each value was set.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := newLoader()
	if _, err := os.Stat(path); err == nil {
		if err := l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := BuildEffectiveConfig(l.raw)
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, l.sources)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// loader merges a file after everything it includes, so the including file
// wins. A file reached twice through different includes is merged once.
type loader struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
	merged  map[string]bool
	chain   []string
}

func newLoader() *loader {
	return &loader{sources: map[string]Source{}, merged: map[string]bool{}}
}

func (l *loader) load(path string) error {
	file := resolveFile(path)
	for _, open := range l.chain {
		if open == file {
			return fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), file)
		}
	}
	if l.merged[file] {
		return nil
	}
	l.merged[file] = true

	pf, err := parseFile(file)
	if err != nil {
		return err
	}

	l.chain = append(l.chain, file)
	for _, inc := range pf.includes {
		targets, err := includeTargets(file, inc.Value)
		if err != nil {
			return fmt.Errorf("%s: include %q: %w", inc.Source, inc.Value, err)
		}
		for _, target := range targets {
			if err := l.load(target); err != nil {
				return err
			}
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	l.raw = l.raw.merge(pf.raw)
	for key, src := range pf.positions {
		l.sources[key] = src
	}
	l.files = append(l.files, file)
	return nil
}

type includeRef struct {
	Value  string
	Source Source
}

// parsedFile is one YAML file decoded into the raw layer, with the position
// of every key and the include entries in file order.
type parsedFile struct {
	raw       RawConfig
	positions map[string]Source
	includes  []includeRef
}

func parseFile(file string) (*parsedFile, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", file, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}

	pf := &parsedFile{positions: map[string]Source{}}
	if err := decodeStrict(data, &pf.raw); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	pf.walk(file, root, "")
	return pf, nil
}

func (pf *parsedFile) walk(file string, node *yaml.Node, prefix string) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		val := node.Content[i+1]
		pf.positions[key] = nodeSource(file, val)
		if key == "include" {
			pf.includes = includeRefs(file, val)
		}
		pf.walk(file, val, key)
	}
}

func includeRefs(file string, node *yaml.Node) []includeRef {
	switch node.Kind {
	case yaml.ScalarNode:
		return []includeRef{{Value: node.Value, Source: nodeSource(file, node)}}
	case yaml.SequenceNode:
		refs := make([]includeRef, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode {
				refs = append(refs, includeRef{Value: item.Value, Source: nodeSource(file, item)})
			}
		}
		return refs
	}
	return nil
}

func nodeSource(file string, node *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: node.Line, Column: node.Column}
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// resolveFile returns an absolute, symlink-free path when it can.
func resolveFile(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// includeTargets resolves an include entry relative to the including file.
// A directory expands to its *.yaml and *.yml files in name order.
func includeTargets(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	target, err := expandHome(include)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(from), target)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, ent := range entries {
		ext := filepath.Ext(ent.Name())
		if ent.IsDir() || !(strings.EqualFold(ext, ".yaml") || strings.EqualFold(ext, ".yml")) {
			continue
		}
		out = append(out, filepath.Join(target, ent.Name()))
	}
	return out, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
