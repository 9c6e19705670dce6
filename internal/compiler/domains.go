package compiler

import (
	"fmt"
	"strings"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/schema"
)

func (c *compiler) parseDomains() error {
	for _, def := range c.defs {
		if def.Kind != schema.DefClassDomain {
			continue
		}

		d, err := c.parseDomain(def)
		if err != nil {
			return err
		}

		if d == nil {
			continue
		}

		c.domains[d.Name] = d
		c.domainOrder = append(c.domainOrder, d.Name)
	}

	return nil
}

// parseDomain returns nil without error when the domain is invalid in
// report mode.
func (c *compiler) parseDomain(def *schema.Definition) (*descriptor.ClassDomain, error) {
	var (
		names   []string
		raw     = map[string]bool{}
		trimmed = map[string]string{}
		failed  bool
	)

	fail := func(line int, code string, err error) error {
		failed = true
		return c.report(fmt.Sprintf("%s:%d", def.Document, line), withCode(code, err))
	}

	for _, cls := range def.Classes {
		if raw[cls.Name] {
			err := errdefs.Syntaxf(def.Name, schema.KeyClasses, "category %q listed twice", cls.Name)
			if rerr := fail(cls.Line, diagnostic.CodeDuplicateCategory, err); rerr != nil {
				return nil, rerr
			}

			continue
		}

		raw[cls.Name] = true
		name := strings.TrimSpace(cls.Name)

		if prev, ok := trimmed[name]; ok {
			c.warn(diagnostic.CodeTrimmedCategory, def.Document, def.Name, name,
				fmt.Sprintf("category %q collides with %q after trimming; dropped", cls.Name, prev))

			continue
		}

		if !schema.IsValidCategory(name) {
			err := errdefs.Syntaxf(def.Name, schema.KeyClasses, "invalid category name %q", cls.Name)
			if rerr := fail(cls.Line, diagnostic.CodeInvalidCategory, err); rerr != nil {
				return nil, rerr
			}

			continue
		}

		trimmed[name] = cls.Name
		names = append(names, name)
	}

	if len(def.Classes) == 0 {
		err := errdefs.Syntaxf(def.Name, schema.KeyClasses, "class domain declares no categories")
		if rerr := fail(def.Line, diagnostic.CodeInvalidCategory, err); rerr != nil {
			return nil, rerr
		}
	}

	skeleton := make([][2]int, 0, len(def.Skeleton))

	for i, pair := range def.Skeleton {
		if len(pair) != 2 || !inRange(pair[0], len(names)) || !inRange(pair[1], len(names)) {
			err := errdefs.Syntaxf(def.Name, fmt.Sprintf("%s[%d]", schema.KeySkeleton, i),
				"expected a pair of category indices in 1..%d, got %v", len(names), pair)
			if rerr := fail(def.Line, diagnostic.CodeInvalidSkeleton, err); rerr != nil {
				return nil, rerr
			}

			continue
		}

		skeleton = append(skeleton, [2]int{pair[0], pair[1]})
	}

	if failed {
		return nil, nil
	}

	d := descriptor.NewClassDomain(def.Name, names)
	d.Skeleton = skeleton
	d.Attributes = def.Attributes
	d.Document = def.Document

	return d, nil
}

func inRange(idx, n int) bool {
	return idx >= 1 && idx <= n
}
