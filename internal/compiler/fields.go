package compiler

import (
	"fmt"
	"slices"
	"strconv"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/field"
	"dsdl-go/internal/match"
	"dsdl-go/internal/schema"
)

// Flags accepted by every kind.
const (
	flagIsAttr   = "is_attr"
	flagOptional = "optional"
	argEType     = "etype"
	argOrdered   = "ordered"
)

func (c *compiler) parseStructs() error {
	for _, def := range c.defs {
		if def.Kind != schema.DefStruct {
			continue
		}

		s, err := c.parseStruct(def)
		if err != nil {
			return err
		}

		c.structs[s.Name] = s
		c.structOrder = append(c.structOrder, s.Name)
	}

	return nil
}

func (c *compiler) parseStruct(def *schema.Definition) (*descriptor.Struct, error) {
	s := &descriptor.Struct{
		Name:     def.Name,
		Params:   slices.Clone(def.Params),
		Document: def.Document,
	}

	params := make(map[string]bool, len(def.Params))
	for _, p := range def.Params {
		params[p] = true
	}

	for _, f := range def.Fields {
		spec, err := c.parseFieldDecl(def, f, params)
		if err != nil {
			if rerr := c.report(fmt.Sprintf("%s:%d", def.Document, f.Line), err); rerr != nil {
				return nil, rerr
			}

			continue
		}

		s.Members = append(s.Members, descriptor.Member{Name: f.Name, Spec: spec})
	}

	for _, name := range def.Optional {
		if m, ok := s.Member(name); ok {
			m.Spec.Optional = true
			continue
		}

		declared := slices.ContainsFunc(def.Fields, func(f schema.FieldDecl) bool { return f.Name == name })
		if declared {
			continue
		}

		err := errdefs.Syntaxf(def.Name, name, "%s names undeclared field %q", schema.KeyOptional, name)
		if rerr := c.report(def.Document, withCode(diagnostic.CodeUnknownOptional, err)); rerr != nil {
			return nil, rerr
		}
	}

	return s, nil
}

func (c *compiler) parseFieldDecl(def *schema.Definition, f schema.FieldDecl, params map[string]bool) (*descriptor.FieldSpec, error) {
	expr, err := schema.ParseExpr(f.Expr)
	if err != nil {
		return nil, withCode(diagnostic.CodeInvalidExpr, errdefs.Syntaxf(def.Name, f.Name, "%v", err))
	}

	return c.parseField(def.Name, f.Name, expr, params)
}

// parseField builds the FieldSpec of one type expression. params holds the
// parameters of the enclosing struct; nil means none may be referenced.
func (c *compiler) parseField(owner, fieldName string, e *schema.Expr, params map[string]bool) (*descriptor.FieldSpec, error) {
	spec := &descriptor.FieldSpec{KindName: e.Name, Expr: e.String()}
	rest := make([]schema.Arg, 0, len(e.Args))

	for _, a := range e.Args {
		switch a.Key {
		case flagIsAttr, flagOptional:
			b, err := parseFlag(a)
			if err != nil {
				return nil, withCode(diagnostic.CodeInvalidArgument, errdefs.Syntaxf(owner, fieldName, "%v", err))
			}

			if a.Key == flagIsAttr {
				spec.IsAttr = b
			} else {
				spec.Optional = b
			}
		default:
			rest = append(rest, a)
		}
	}

	if def, ok := c.byName[e.Name]; ok {
		if def.Kind == schema.DefStruct {
			return c.structRef(owner, fieldName, spec, def, rest, params)
		}

		return nil, withCode(diagnostic.CodeUnknownKind,
			errdefs.Syntaxf(owner, fieldName, "class domain %s cannot be used as a field type", e.Name))
	}

	k, err := c.reg.Fields().Lookup(e.Name)
	if err != nil {
		candidates := append(c.reg.Fields().Names(), c.namesOf(schema.DefStruct)...)

		return nil, withCode(diagnostic.CodeUnknownKind, &errdefs.DefineError{
			Kind:        errdefs.ErrDefineSyntax,
			Definition:  owner,
			Field:       fieldName,
			Msg:         fmt.Sprintf("unknown field kind or struct %q", e.Name),
			Suggestions: match.Suggest(e.Name, candidates, 3),
		})
	}

	spec.Kind = k.Kind

	if k.Kind == descriptor.KindList {
		return c.listField(owner, fieldName, spec, rest, params)
	}

	raw := make(field.RawArgs, len(rest))
	for _, a := range rest {
		raw[a.Key] = a.Values()
	}

	args, err := k.Parse(raw)
	if err != nil {
		return nil, withCode(diagnostic.CodeInvalidArgument, errdefs.Syntaxf(owner, fieldName, "%s: %v", k.Name, err))
	}

	if da, ok := args.(descriptor.DomainArgs); ok {
		if err := c.checkDomains(owner, fieldName, da, params); err != nil {
			return nil, err
		}
	}

	spec.Args = args

	return spec, nil
}

func (c *compiler) listField(owner, fieldName string, spec *descriptor.FieldSpec, rest []schema.Arg, params map[string]bool) (*descriptor.FieldSpec, error) {
	var (
		etype   *schema.Expr
		ordered bool
	)

	for _, a := range rest {
		switch a.Key {
		case argEType:
			if a.Expr == nil {
				return nil, withCode(diagnostic.CodeInvalidArgument,
					errdefs.Syntaxf(owner, fieldName, "list %s must be a type expression, got %q", argEType, a.Value))
			}

			etype = a.Expr
		case argOrdered:
			b, err := parseFlag(a)
			if err != nil {
				return nil, withCode(diagnostic.CodeInvalidArgument, errdefs.Syntaxf(owner, fieldName, "%v", err))
			}

			ordered = b
		default:
			return nil, withCode(diagnostic.CodeInvalidArgument,
				errdefs.Syntaxf(owner, fieldName, "unexpected list argument %q", a.Key))
		}
	}

	if etype == nil {
		return nil, withCode(diagnostic.CodeInvalidArgument,
			errdefs.Syntaxf(owner, fieldName, "list requires an %s argument", argEType))
	}

	elem, err := c.parseField(owner, fieldName, etype, params)
	if err != nil {
		return nil, err
	}

	spec.Args = descriptor.ListArgs{Elem: elem, Ordered: ordered}

	return spec, nil
}

func (c *compiler) structRef(owner, fieldName string, spec *descriptor.FieldSpec, target *schema.Definition, rest []schema.Arg, params map[string]bool) (*descriptor.FieldSpec, error) {
	args := descriptor.StructArgs{Name: target.Name}

	for _, a := range rest {
		if !slices.Contains(target.Params, a.Key) {
			return nil, withCode(diagnostic.CodeUnknownParam, &errdefs.DefineError{
				Kind:        errdefs.ErrDefineSyntax,
				Definition:  owner,
				Field:       fieldName,
				Msg:         fmt.Sprintf("%s has no parameter %q", target.Name, a.Key),
				Suggestions: match.Suggest(a.Key, target.Params, 3),
			})
		}

		if a.IsList {
			return nil, withCode(diagnostic.CodeInvalidArgument,
				errdefs.Syntaxf(owner, fieldName, "parameter %s of %s takes a single class domain", a.Key, target.Name))
		}

		if err := checkParamRef(owner, fieldName, a.Value, params); err != nil {
			return nil, err
		}

		args.Bindings = append(args.Bindings, descriptor.Binding{Param: a.Key, Value: a.Value})
	}

	spec.Kind = descriptor.KindStruct
	spec.Args = args

	return spec, nil
}

func (c *compiler) checkDomains(owner, fieldName string, da descriptor.DomainArgs, params map[string]bool) error {
	for _, d := range da.Domains {
		if descriptor.IsParamRef(d) {
			if err := checkParamRef(owner, fieldName, d, params); err != nil {
				return err
			}

			continue
		}

		if !c.isDomain(d) {
			return withCode(diagnostic.CodeUnknownDomain, &errdefs.DefineError{
				Kind:        errdefs.ErrDefineSyntax,
				Definition:  owner,
				Field:       fieldName,
				Msg:         fmt.Sprintf("unknown class domain %q", d),
				Suggestions: match.Suggest(d, c.namesOf(schema.DefClassDomain), 3),
			})
		}
	}

	return nil
}

func checkParamRef(owner, fieldName, value string, params map[string]bool) error {
	if !descriptor.IsParamRef(value) || params[descriptor.ParamName(value)] {
		return nil
	}

	return withCode(diagnostic.CodeUnknownParam,
		errdefs.Syntaxf(owner, fieldName, "reference to undeclared parameter %s", value))
}

func parseFlag(a schema.Arg) (bool, error) {
	if a.IsList {
		return false, fmt.Errorf("flag %s takes true or false", a.Key)
	}

	b, err := strconv.ParseBool(a.Value)
	if err != nil {
		return false, fmt.Errorf("flag %s takes true or false, got %q", a.Key, a.Value)
	}

	return b, nil
}

// parseRoots compiles the data section's type references.
func (c *compiler) parseRoots() error {
	if c.root.Data == nil {
		return nil
	}

	roots := []struct {
		key  string
		expr string
		out  **descriptor.FieldSpec
	}{
		{schema.KeySampleType, c.root.Data.SampleType, &c.sample},
		{schema.KeyGlobalInfoType, c.root.Data.GlobalInfoType, &c.globalInfo},
	}

	for _, r := range roots {
		if r.expr == "" {
			continue
		}

		spec, err := c.parseRoot(r.key, r.expr)
		if err != nil {
			if rerr := c.report(c.root.Path, err); rerr != nil {
				return rerr
			}

			continue
		}

		*r.out = spec
	}

	return nil
}

func (c *compiler) parseRoot(key, raw string) (*descriptor.FieldSpec, error) {
	e, err := schema.ParseExpr(raw)
	if err != nil {
		return nil, withCode(diagnostic.CodeInvalidExpr, errdefs.Syntaxf(schema.KeyData, key, "%v", err))
	}

	if !c.isStruct(e.Name) {
		return nil, withCode(diagnostic.CodeUnknownStruct, &errdefs.DefineError{
			Kind:        errdefs.ErrDefineSyntax,
			Definition:  schema.KeyData,
			Field:       key,
			Msg:         fmt.Sprintf("%s is not a declared struct", e.Name),
			Suggestions: match.Suggest(e.Name, c.namesOf(schema.DefStruct), 3),
		})
	}

	return c.parseField(schema.KeyData, key, e, nil)
}
