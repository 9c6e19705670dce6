package schema

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
)

// Reserved top-level keys of a document.
const (
	KeyVersion  = "$dsdl-version"
	KeyImport   = "$import"
	KeyMeta     = "meta"
	KeyData     = "data"
	KeyDefs     = "defs"
	KeyDef      = "$def"
	KeyParams   = "$params"
	KeyFields   = "$fields"
	KeyOptional = "$optional"
	KeyClasses  = "classes"
	KeySkeleton = "skeleton"

	KeySampleType     = "sample-type"
	KeyGlobalInfoType = "global-info-type"
)

// DefKind is the declared kind of a definition.
type DefKind string

const (
	DefStruct      DefKind = "struct"
	DefClassDomain DefKind = "class_domain"
)

// IsValid returns true if the kind is a recognized value.
func (k DefKind) IsValid() bool {
	return k == DefStruct || k == DefClassDomain
}

// Document is one parsed schema file.
type Document struct {
	// Path is the fs path the document was loaded from.
	Path    string
	Version string
	Imports StringOrArray
	Meta    map[string]any
	Data    *DataSection
	// Defs keeps declaration order.
	Defs []*Definition
	// Problems are declaration errors found while decoding. They do not
	// stop decoding so report mode can show all of them.
	Problems []Problem
}

// DataSection names the root types of a dataset.
type DataSection struct {
	SampleType     string
	GlobalInfoType string
	Line           int
}

// Definition is one raw struct or class domain declaration.
type Definition struct {
	Name     string
	Kind     DefKind
	Line     int
	Document string

	// struct
	Params   []string
	Fields   []FieldDecl
	Optional []string

	// class_domain
	Classes    []ClassDecl
	Skeleton   [][]int
	Attributes map[string]any
}

// FieldDecl is one entry of $fields.
type FieldDecl struct {
	Name string
	Expr string
	Line int
}

// ClassDecl is one entry of classes.
type ClassDecl struct {
	Name string
	Line int
}

// Problem is a declaration error located in a document.
type Problem struct {
	Code string
	Line int
	Err  *errdefs.DefineError
}

// Definition returns the definition with the given name.
func (d *Document) Definition(name string) (*Definition, bool) {
	for _, def := range d.Defs {
		if def.Name == name {
			return def, true
		}
	}

	return nil, false
}

func (d *Document) problem(code string, line int, err *errdefs.DefineError) {
	d.Problems = append(d.Problems, Problem{Code: code, Line: line, Err: err})
}

// --- StringOrArray YAML methods ---

// StringOrArray accepts either a single string or a sequence of strings.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*s = StringOrArray{}
		} else {
			*s = StringOrArray{node.Value}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array, got %v", node.Line, kindName(node.Kind))
	}
}

// --- Document YAML methods ---

// UnmarshalYAML decodes a document keeping definition and field order.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: document must be a mapping, got %v", node.Line, kindName(node.Kind))
	}

	seen := map[string]int{}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		switch key.Value {
		case KeyVersion:
			d.Version = val.Value
		case KeyImport:
			if err := val.Decode(&d.Imports); err != nil {
				return fmt.Errorf("%s: %w", KeyImport, err)
			}
		case KeyMeta:
			if err := val.Decode(&d.Meta); err != nil {
				return fmt.Errorf("%s: %w", KeyMeta, err)
			}
		case KeyData:
			if err := d.decodeData(val); err != nil {
				return err
			}
		case KeyDefs:
			if val.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: %s must be a mapping", val.Line, KeyDefs)
			}

			for j := 0; j+1 < len(val.Content); j += 2 {
				d.decodeDefinition(val.Content[j], val.Content[j+1], seen)
			}
		default:
			// Top-level definitions are only recognized when they are mappings.
			if val.Kind == yaml.MappingNode {
				d.decodeDefinition(key, val, seen)
			}
		}
	}

	return nil
}

func (d *Document) decodeData(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", node.Line, KeyData)
	}

	d.Data = &DataSection{Line: node.Line}

	for i := 0; i+1 < len(node.Content); i += 2 {
		switch node.Content[i].Value {
		case KeySampleType:
			d.Data.SampleType = node.Content[i+1].Value
		case KeyGlobalInfoType:
			d.Data.GlobalInfoType = node.Content[i+1].Value
		}
	}

	return nil
}

func (d *Document) decodeDefinition(key, node *yaml.Node, seen map[string]int) {
	name := key.Value
	def := &Definition{Name: name, Line: key.Line, Document: d.Path}

	if prev, dup := seen[name]; dup {
		d.problem(diagnostic.CodeDuplicateDef, key.Line,
			errdefs.Duplicatef(name, "already defined at line %d", prev))

		return
	}

	seen[name] = key.Line

	if node.Kind != yaml.MappingNode {
		d.problem(diagnostic.CodeMissingDefKind, key.Line,
			errdefs.Syntaxf(name, "", "definition must be a mapping with %s", KeyDef))

		return
	}

	var attrs []*yaml.Node

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]

		switch k.Value {
		case KeyDef:
			def.Kind = DefKind(v.Value)
		case KeyParams:
			d.decodeStrings(def, KeyParams, v, &def.Params)
		case KeyOptional:
			d.decodeStrings(def, KeyOptional, v, &def.Optional)
		case KeyFields:
			d.decodeFields(def, v)
		case KeyClasses:
			d.decodeClasses(def, v)
		case KeySkeleton:
			if err := v.Decode(&def.Skeleton); err != nil {
				d.problem(diagnostic.CodeInvalidSkeleton, v.Line,
					errdefs.Syntaxf(name, KeySkeleton, "expected a list of index pairs: %v", err))
			}
		default:
			attrs = append(attrs, k, v)
		}
	}

	switch {
	case def.Kind == "":
		d.problem(diagnostic.CodeMissingDefKind, key.Line,
			errdefs.Syntaxf(name, "", "missing %s", KeyDef))

		return
	case !def.Kind.IsValid():
		d.problem(diagnostic.CodeUnknownDefKind, key.Line,
			errdefs.Syntaxf(name, "", "unknown %s %q (expected %q or %q)", KeyDef, def.Kind, DefStruct, DefClassDomain))

		return
	}

	if len(attrs) > 0 {
		def.Attributes = make(map[string]any, len(attrs)/2)

		for i := 0; i < len(attrs); i += 2 {
			var v any
			if err := attrs[i+1].Decode(&v); err == nil {
				def.Attributes[attrs[i].Value] = v
			}
		}
	}

	d.Defs = append(d.Defs, def)
}

func (d *Document) decodeStrings(def *Definition, key string, node *yaml.Node, out *[]string) {
	var s StringOrArray
	if err := node.Decode(&s); err != nil {
		d.problem(diagnostic.CodeInvalidArgument, node.Line, errdefs.Syntaxf(def.Name, key, "%v", err))
		return
	}

	*out = s
}

func (d *Document) decodeFields(def *Definition, node *yaml.Node) {
	if node.Kind != yaml.MappingNode {
		d.problem(diagnostic.CodeInvalidExpr, node.Line,
			errdefs.Syntaxf(def.Name, "", "%s must be a mapping of field name to type", KeyFields))

		return
	}

	seen := map[string]bool{}

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]

		if seen[k.Value] {
			d.problem(diagnostic.CodeDuplicateDef, k.Line,
				errdefs.Duplicatef(def.Name, "field %q already defined", k.Value))

			continue
		}

		seen[k.Value] = true

		if v.Kind != yaml.ScalarNode {
			d.problem(diagnostic.CodeInvalidExpr, v.Line,
				errdefs.Syntaxf(def.Name, k.Value, "type expression must be a string"))

			continue
		}

		def.Fields = append(def.Fields, FieldDecl{Name: k.Value, Expr: v.Value, Line: k.Line})
	}
}

func (d *Document) decodeClasses(def *Definition, node *yaml.Node) {
	if node.Kind != yaml.SequenceNode {
		d.problem(diagnostic.CodeInvalidCategory, node.Line,
			errdefs.Syntaxf(def.Name, KeyClasses, "classes must be a list"))

		return
	}

	for i, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			d.problem(diagnostic.CodeInvalidCategory, item.Line,
				errdefs.Syntaxf(def.Name, KeyClasses+"["+strconv.Itoa(i)+"]", "category must be a string"))

			continue
		}

		def.Classes = append(def.Classes, ClassDecl{Name: item.Value, Line: item.Line})
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
