package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"dsdl-go/dsdl"
)

func registerKindsCmd(parent *cobra.Command, a *app) {
	parent.AddCommand(&cobra.Command{
		Use:   "kinds",
		Short: "List the built-in field kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields := dsdl.NewRegistry().Fields()

			for _, name := range fields.Names() {
				k, err := fields.Lookup(name)
				if err != nil {
					return err
				}

				var traits []string
				if k.Kind.IsDomainLinked() {
					traits = append(traits, "class domain")
				}

				if k.Kind.IsUnstructured() {
					traits = append(traits, "media")
				}

				if len(k.Aliases) > 0 {
					traits = append(traits, "aliases: "+strings.Join(k.Aliases, ", "))
				}

				desc := "-"
				if len(traits) > 0 {
					desc = strings.Join(traits, "; ")
				}

				a.out.KeyValue(name, desc)
			}

			return nil
		},
	})
}
