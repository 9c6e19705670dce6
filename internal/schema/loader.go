package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extensions tried, in order, when resolving an import without one.
var Extensions = []string{".yaml", ".yml"}

// Loader reads schema documents from a file system.
type Loader struct {
	fsys        fs.FS
	searchPaths []string
}

// NewLoader returns a loader reading from fsys. searchPaths are directories
// tried after the importing document's own directory.
func NewLoader(fsys fs.FS, searchPaths ...string) *Loader {
	clean := make([]string, 0, len(searchPaths))
	for _, p := range searchPaths {
		clean = append(clean, path.Clean(strings.TrimPrefix(p, "/")))
	}

	return &Loader{fsys: fsys, searchPaths: clean}
}

// LoadFile loads and parses one schema document.
func (l *Loader) LoadFile(name string) (*Document, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", name, err)
	}

	return Parse(data, name)
}

// Parse parses YAML data into a Document. name is recorded as its path.
func Parse(data []byte, name string) (*Document, error) {
	doc := Document{Path: name}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML %s: %w", name, err)
	}

	if root.Kind == 0 {
		return &doc, nil
	}

	if err := doc.UnmarshalYAML(&root); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML %s: %w", name, err)
	}

	return &doc, nil
}

// Resolve maps an import entry of document from to a file in the loader's
// file system.
func (l *Loader) Resolve(from, name string) (string, error) {
	dirs := append([]string{path.Dir(from)}, l.searchPaths...)

	for _, dir := range dirs {
		base := path.Join(dir, name)

		candidates := []string{base}
		if path.Ext(base) == "" {
			candidates = candidates[:0]
			for _, ext := range Extensions {
				candidates = append(candidates, base+ext)
			}
		}

		for _, c := range candidates {
			if _, err := fs.Stat(l.fsys, c); err == nil {
				return c, nil
			}
		}
	}

	return "", fmt.Errorf("import %q of %s: %w", name, from, fs.ErrNotExist)
}

// Tree is a root document with every document it transitively imports.
type Tree struct {
	Root *Document
	// Imports holds imported documents in load order, depth first.
	Imports []*Document
}

// LoadTree loads root and follows its imports. A document imported more
// than once is loaded once. When the root loads but some import fails, the
// partial tree is returned with the joined import errors.
func (l *Loader) LoadTree(root string) (*Tree, error) {
	doc, err := l.LoadFile(root)
	if err != nil {
		return nil, err
	}

	return l.LoadImports(doc)
}

// LoadImports follows the imports of an already parsed document.
func (l *Loader) LoadImports(doc *Document) (*Tree, error) {
	tree := &Tree{Root: doc}

	return tree, l.loadImports(doc, tree, map[string]bool{doc.Path: true})
}

func (l *Loader) loadImports(doc *Document, tree *Tree, visited map[string]bool) error {
	var errs []error

	for _, imp := range doc.Imports {
		p, err := l.Resolve(doc.Path, imp)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if visited[p] {
			continue
		}

		visited[p] = true

		child, err := l.LoadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		tree.Imports = append(tree.Imports, child)

		if err := l.loadImports(child, tree, visited); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
