package descriptor

import "strings"

// QualifiedSep separates a class domain from a category name in label keys.
const QualifiedSep = "::"

// Category is one entry of a class domain.
type Category struct {
	Domain string
	Name   string
	// Index is 1-based and follows declaration order.
	Index int
}

// QualifiedName returns "Domain::name".
func (c Category) QualifiedName() string {
	return c.Domain + QualifiedSep + c.Name
}

// Segments splits a hierarchical category name on '.'.
func (c Category) Segments() []string {
	return strings.Split(c.Name, ".")
}

// Parent returns the hierarchical parent name, or "" for top-level categories.
func (c Category) Parent() string {
	i := strings.LastIndex(c.Name, ".")
	if i < 0 {
		return ""
	}

	return c.Name[:i]
}

// SplitQualified splits "Domain::name" into its parts. ok is false for an
// unqualified name.
func SplitQualified(s string) (domain, name string, ok bool) {
	return strings.Cut(s, QualifiedSep)
}

// ClassDomain is the compiled representation of a class domain declaration.
type ClassDomain struct {
	Name       string
	Categories []Category
	// Skeleton holds 1-based category index pairs.
	Skeleton [][2]int
	// Attributes keeps any other declared keys.
	Attributes map[string]any
	Document   string

	byName map[string]int
}

// NewClassDomain builds a class domain from ordered, duplicate-free names.
func NewClassDomain(name string, categories []string) *ClassDomain {
	d := &ClassDomain{
		Name:       name,
		Categories: make([]Category, len(categories)),
		byName:     make(map[string]int, len(categories)),
	}

	for i, c := range categories {
		d.Categories[i] = Category{Domain: name, Name: c, Index: i + 1}
		d.byName[c] = i
	}

	return d
}

// Len returns the number of categories.
func (d *ClassDomain) Len() int {
	return len(d.Categories)
}

// Category looks up a category by name.
func (d *ClassDomain) Category(name string) (Category, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Category{}, false
	}

	return d.Categories[i], true
}

// At looks up a category by its 1-based index.
func (d *ClassDomain) At(index int) (Category, bool) {
	if index < 1 || index > len(d.Categories) {
		return Category{}, false
	}

	return d.Categories[index-1], true
}

// Names returns category names in order.
func (d *ClassDomain) Names() []string {
	names := make([]string, len(d.Categories))
	for i, c := range d.Categories {
		names[i] = c.Name
	}

	return names
}
