package compiler

import (
	"fmt"

	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/schema"
)

// merge collects definitions: every imported document in one pass, then the
// root document, whose definitions override imported ones.
func (c *compiler) merge(tree *schema.Tree) error {
	c.root = tree.Root
	c.docs = append(c.docs, tree.Root.Path)

	if err := c.checkRoot(tree.Root); err != nil {
		return err
	}

	imported := make(map[string]int)

	for _, doc := range tree.Imports {
		c.docs = append(c.docs, doc.Path)
		c.log.Debug("loaded imported document", "path", doc.Path, "definitions", len(doc.Defs))

		if err := c.reportProblems(doc); err != nil {
			return err
		}

		for _, def := range doc.Defs {
			if i, dup := imported[def.Name]; dup {
				err := withCode(diagnostic.CodeDuplicateDef,
					errdefs.Duplicatef(def.Name, "already defined in %s", c.defs[i].Document))
				if rerr := c.report(doc.Path, err); rerr != nil {
					return rerr
				}

				continue
			}

			imported[def.Name] = len(c.defs)
			c.defs = append(c.defs, def)
		}
	}

	if err := c.reportProblems(tree.Root); err != nil {
		return err
	}

	for _, def := range tree.Root.Defs {
		if i, ok := imported[def.Name]; ok {
			prev := c.defs[i]
			c.defs[i] = def

			msg := fmt.Sprintf("overrides the definition imported from %s", prev.Document)
			c.diags.Add(diagnostic.Diagnostic{
				Severity:   diagnostic.SeverityInfo,
				Code:       diagnostic.CodeOverriddenDef,
				Message:    msg,
				Definition: def.Name,
				Document:   def.Document,
			})
			c.log.Debug("root definition overrides import", "name", def.Name, "imported_from", prev.Document)

			continue
		}

		c.defs = append(c.defs, def)
	}

	for _, def := range c.defs {
		c.byName[def.Name] = def
	}

	return nil
}

func (c *compiler) checkRoot(doc *schema.Document) error {
	missing := func(what string) error {
		return c.report(doc.Path, withCode(diagnostic.CodeMissingSection, errdefs.Syntaxf("", "", "missing %s", what)))
	}

	if doc.Version == "" {
		if err := missing(schema.KeyVersion); err != nil {
			return err
		}
	}

	if doc.Meta == nil {
		c.warn(diagnostic.CodeMissingSection, doc.Path, "", "", "missing "+schema.KeyMeta+" section")
	}

	if doc.Data == nil {
		return missing(schema.KeyData)
	}

	if doc.Data.SampleType == "" {
		return missing(schema.KeyData + "." + schema.KeySampleType)
	}

	return nil
}

func (c *compiler) reportProblems(doc *schema.Document) error {
	for _, p := range doc.Problems {
		loc := fmt.Sprintf("%s:%d", doc.Path, p.Line)
		if err := c.report(loc, withCode(p.Code, p.Err)); err != nil {
			return err
		}
	}

	return nil
}
