package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dsdl-go/internal/config"
)

func registerCheckCmd(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "check <schema>",
		Short: "Compile a schema and report every problem",
		Example: `  # Check a schema, resolving imports from ./shared
  dsdl check detection.yaml -I shared`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(args[0])
		},
	}

	cmd.Flags().Bool("report", true, "Collect every problem instead of stopping at the first")
	_ = a.v.BindPFlag(config.KeyReport, cmd.Flags().Lookup("report"))

	parent.AddCommand(cmd)
}

var errCheckFailed = errors.New("schema check failed")

func (a *app) runCheck(file string) error {
	a.out.Info("Checking " + file)

	reg, res, err := a.compile(file, a.v.GetBool(config.KeyReport))
	if err != nil {
		a.out.Error(err.Error())
		return errCheckFailed
	}

	a.out.Diagnostics(res.Diagnostics)

	if res.Diagnostics.HasErrors() {
		a.out.Error(fmt.Sprintf("%d error(s), %d warning(s)", len(res.Diagnostics.Errors), len(res.Diagnostics.Warnings)))
		return errCheckFailed
	}

	snap := reg.Snapshot()

	a.out.KeyValue("documents", len(res.Documents))
	a.out.KeyValue("structs", len(snap.Structs))
	a.out.KeyValue("class domains", len(snap.Domains))

	if st := reg.SampleType(); st != nil {
		a.out.KeyValue("sample type", st.String())
	}

	if gt := reg.GlobalInfoType(); gt != nil {
		a.out.KeyValue("global info", gt.String())
	}

	for _, name := range res.Order {
		a.out.Verbose("struct " + name)
	}

	a.out.Success(fmt.Sprintf("%s is valid (%d warning(s))", file, len(res.Diagnostics.Warnings)))

	return nil
}
