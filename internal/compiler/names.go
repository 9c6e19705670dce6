package compiler

import (
	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/schema"
)

// validateNames checks definition, parameter and field names. Definition
// names must not collide with a field kind; field names may, since a field
// is commonly named after its kind.
func (c *compiler) validateNames() error {
	for _, def := range c.defs {
		if err := c.validateDefName(def); err != nil {
			return err
		}

		if def.Kind != schema.DefStruct {
			continue
		}

		seen := map[string]bool{}

		for _, p := range def.Params {
			switch {
			case !schema.IsValidIdent(p):
				err := errdefs.Syntaxf(def.Name, schema.KeyParams, "invalid parameter name %q", p)
				if rerr := c.report(def.Document, withCode(diagnostic.CodeInvalidName, err)); rerr != nil {
					return rerr
				}
			case seen[p]:
				err := errdefs.Duplicatef(def.Name, "parameter %q declared twice", p)
				if rerr := c.report(def.Document, withCode(diagnostic.CodeDuplicateDef, err)); rerr != nil {
					return rerr
				}
			}

			seen[p] = true
		}

		for _, f := range def.Fields {
			if !schema.IsValidIdent(f.Name) {
				err := errdefs.Syntaxf(def.Name, f.Name, "invalid field name %q", f.Name)
				if rerr := c.report(def.Document, withCode(diagnostic.CodeInvalidName, err)); rerr != nil {
					return rerr
				}
			}
		}
	}

	return nil
}

func (c *compiler) validateDefName(def *schema.Definition) error {
	if !schema.IsValidIdent(def.Name) {
		err := errdefs.Syntaxf(def.Name, "", "invalid %s name %q", def.Kind, def.Name)
		return c.report(def.Document, withCode(diagnostic.CodeInvalidName, err))
	}

	if c.reg.Fields().IsReserved(def.Name) {
		k, _ := c.reg.Fields().Lookup(def.Name)
		err := errdefs.Syntaxf(def.Name, "", "%s name collides with field kind %q", def.Kind, k.Name)

		return c.report(def.Document, withCode(diagnostic.CodeReservedName, err))
	}

	return nil
}
