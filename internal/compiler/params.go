package compiler

import (
	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/schema"
)

type bindingSource struct {
	value string
	// raw is the binding as written by the referencer, before indirection.
	raw  string
	from string
}

// resolveParams propagates parameter bindings from the data section down the
// reference graph in topological order, then rewrites every domain argument
// and struct binding that refers to a parameter.
func (c *compiler) resolveParams() error {
	bound := make(map[string]map[string]bindingSource)
	reachable := make(map[string]bool)

	// Every referencer of a struct must bind each parameter with the same
	// text, and that text must resolve to the same domain.
	bind := func(child, param, raw, value, from string) error {
		if bound[child] == nil {
			bound[child] = make(map[string]bindingSource)
		}

		prev, ok := bound[child][param]
		if !ok {
			bound[child][param] = bindingSource{value: value, raw: raw, from: from}
			return nil
		}

		if prev.raw == raw && prev.value == value {
			return nil
		}

		err := errdefs.Paramf(child, param, "bound to %s by %s and to %s by %s", prev.raw, prev.from, raw, from)

		return c.report(c.structs[child].Document, withCode(diagnostic.CodeParamAmbiguous, err))
	}

	for _, root := range []*descriptor.FieldSpec{c.sample, c.globalInfo} {
		if root == nil {
			continue
		}

		ref := root.Args.(descriptor.StructArgs)
		reachable[ref.Name] = true

		for _, b := range ref.Bindings {
			if err := bind(ref.Name, b.Param, b.Value, b.Value, schema.KeyData); err != nil {
				return err
			}
		}
	}

	for _, name := range c.order {
		if !reachable[name] {
			continue
		}

		for _, m := range c.structs[name].Members {
			ref, ok := m.Spec.StructRef()
			if !ok {
				continue
			}

			reachable[ref.Name] = true

			for _, b := range ref.Bindings {
				v := b.Value

				if descriptor.IsParamRef(v) {
					src, ok := bound[name][descriptor.ParamName(v)]
					if !ok {
						// Reported below as an unresolved parameter of name.
						continue
					}

					v = src.value
				}

				if err := bind(ref.Name, b.Param, b.Value, v, name+"."+m.Name); err != nil {
					return err
				}
			}
		}
	}

	for _, name := range c.order {
		s := c.structs[name]

		if reachable[name] {
			if err := c.checkBindings(s, bound[name]); err != nil {
				return err
			}
		}

		if len(bound[name]) == 0 {
			continue
		}

		s.Bindings = make(map[string]string, len(bound[name]))
		for p, src := range bound[name] {
			s.Bindings[p] = src.value
		}

		for i := range s.Members {
			s.Members[i].Spec = substitute(s.Members[i].Spec, s.Bindings)
		}
	}

	c.log.Debug("resolved parameters", "structs", len(bound))

	return nil
}

func (c *compiler) checkBindings(s *descriptor.Struct, bound map[string]bindingSource) error {
	for _, p := range s.Params {
		src, ok := bound[p]
		if !ok {
			err := errdefs.Paramf(s.Name, p, "parameter %s of %s is never bound to a class domain", p, s.Name)
			if rerr := c.report(s.Document, withCode(diagnostic.CodeParamUnresolved, err)); rerr != nil {
				return rerr
			}

			continue
		}

		if !c.isDomain(src.value) {
			err := errdefs.Paramf(s.Name, p, "%s binds %s to %s, which is not a class domain", src.from, p, src.value)
			if rerr := c.report(s.Document, withCode(diagnostic.CodeParamNotDomain, err)); rerr != nil {
				return rerr
			}
		}
	}

	return nil
}

// substitute returns a copy of spec with parameter references replaced by
// their bound values. References without a binding are kept.
func substitute(spec *descriptor.FieldSpec, bindings map[string]string) *descriptor.FieldSpec {
	out := spec.Clone()

	resolve := func(v string) string {
		if !descriptor.IsParamRef(v) {
			return v
		}

		if b, ok := bindings[descriptor.ParamName(v)]; ok {
			return b
		}

		return v
	}

	out.Walk(func(s *descriptor.FieldSpec) {
		switch a := s.Args.(type) {
		case descriptor.DomainArgs:
			doms := make([]string, len(a.Domains))
			for i, d := range a.Domains {
				doms[i] = resolve(d)
			}

			s.Args = descriptor.DomainArgs{Domains: doms}
		case descriptor.StructArgs:
			bs := make([]descriptor.Binding, len(a.Bindings))
			for i, b := range a.Bindings {
				bs[i] = descriptor.Binding{Param: b.Param, Value: resolve(b.Value)}
			}

			s.Args = descriptor.StructArgs{Name: a.Name, Bindings: bs}
		}
	})

	return out
}
