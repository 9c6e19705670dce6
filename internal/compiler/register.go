package compiler

import (
	"slices"
)

// register inserts class domains before structs. Structs are registered
// referenced-first so a registered struct never points at a missing one.
func (c *compiler) register() error {
	for _, name := range c.domainOrder {
		if err := c.reg.RegisterDomain(c.domains[name]); err != nil {
			return err
		}
	}

	for _, name := range slices.Backward(c.order) {
		if err := c.reg.RegisterStruct(c.structs[name]); err != nil {
			return err
		}
	}

	if err := c.reg.SetRoots(c.sample, c.globalInfo); err != nil {
		return err
	}

	c.log.Debug("registered definitions", "domains", len(c.domainOrder), "structs", len(c.order))

	return nil
}
