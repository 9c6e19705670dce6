package commands

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"dsdl-go/dsdl"
)

type validateOptions struct {
	structName string
	dump       bool
}

func registerValidateCmd(parent *cobra.Command, a *app) {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate <schema> <samples>",
		Short: "Validate a file of samples against a schema",
		Long: `Validate every sample of a YAML samples file (a list of samples, or a
mapping with a "samples" list) against the schema's sample type or the
struct given by --struct.`,
		Example: `  # Validate strictly, reading media from ./media
  dsdl validate detection.yaml train.yaml --mode strict --media-root media`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.structName, "struct", "s", "", "Struct to validate against (default: the sample type)")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "Dump the validated values of every sample")

	parent.AddCommand(cmd)
}

var errValidateFailed = errors.New("validation failed")

func (a *app) runValidate(cmd *cobra.Command, schemaFile, samplesFile string, opts validateOptions) error {
	reg, _, err := a.compile(schemaFile, false)
	if err != nil {
		return err
	}

	name, err := structName(reg, opts.structName)
	if err != nil {
		return err
	}

	samples, err := loadSamples(samplesFile)
	if err != nil {
		return err
	}

	reader, err := a.reader()
	if err != nil {
		return err
	}

	a.out.Info(fmt.Sprintf("Validating %d sample(s) of %s (%s mode)", len(samples), name, a.cfg.Mode))

	results, err := dsdl.ValidateBatch(cmd.Context(), reg, name, samples, a.cfg.Mode, dsdl.BatchOptions{
		Workers: a.cfg.Workers,
		Reader:  reader,
		Logger:  a.logger,
	})
	if err != nil {
		return err
	}

	failed, warned := 0, 0

	for _, r := range results {
		prefix := fmt.Sprintf("#%d ", r.Index)

		if r.Err != nil {
			failed++
			a.out.Error(prefix + r.Err.Error())

			continue
		}

		if len(r.Warnings) > 0 {
			warned++
			a.out.Warnings(prefix, r.Warnings)
		}

		if opts.dump {
			values, err := r.Instance.Values()
			if err != nil {
				a.out.Error(prefix + err.Error())
				continue
			}

			a.out.Info(prefix + "values:")
			spew.Fdump(cmd.OutOrStdout(), values)
		}
	}

	if failed > 0 {
		a.out.Error(fmt.Sprintf("%d of %d sample(s) failed", failed, len(results)))
		return errValidateFailed
	}

	a.out.Success(fmt.Sprintf("%d sample(s) valid, %d with warnings", len(results), warned))

	return nil
}
