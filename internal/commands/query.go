package commands

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"dsdl-go/dsdl"
	"dsdl-go/internal/common"
	"dsdl-go/internal/config"
	"dsdl-go/internal/extract"
)

type queryOptions struct {
	structName string
	kinds      []string
	pattern    string
	path       string
	index      int
}

func registerQueryCmd(parent *cobra.Command, a *app) {
	opts := queryOptions{index: -1}

	cmd := &cobra.Command{
		Use:   "query <schema> <samples>",
		Short: "Print typed values out of validated samples",
		Example: `  # Every bounding box of every sample
  dsdl query detection.yaml train.yaml --kind bbox

  # Labels of the first object of sample 3
  dsdl query detection.yaml train.yaml --pattern './objects/0/*' --kind label --index 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.structName, "struct", "s", "", "Struct the samples are instances of (default: the sample type)")
	cmd.Flags().StringSliceVarP(&opts.kinds, "kind", "k", nil, "Field kinds to extract (repeatable)")
	cmd.Flags().StringVarP(&opts.pattern, "pattern", "p", "", "Path pattern, e.g. ./objects/*/box")
	cmd.Flags().StringVar(&opts.path, "path", "", "Exact path, e.g. ./objects/0/box")
	cmd.Flags().IntVarP(&opts.index, "index", "i", -1, "Only query the sample at this index")
	cmd.MarkFlagsMutuallyExclusive("pattern", "path")

	parent.AddCommand(cmd)
}

func (a *app) runQuery(schemaFile, samplesFile string, opts queryOptions) error {
	reg, _, err := a.compile(schemaFile, false)
	if err != nil {
		return err
	}

	name, err := structName(reg, opts.structName)
	if err != nil {
		return err
	}

	kinds, err := dsdl.ParseKinds(reg, opts.kinds...)
	if err != nil {
		return err
	}

	samples, err := loadSamples(samplesFile)
	if err != nil {
		return err
	}

	if opts.index >= len(samples) {
		return fmt.Errorf("sample index %d out of range (%d samples)", opts.index, len(samples))
	}

	reader, err := a.reader()
	if err != nil {
		return err
	}

	engine, err := dsdl.NewEngine(extract.WithCacheSize(a.v.GetInt(config.KeyCacheSize)), extract.WithEngineLogger(a.logger))
	if err != nil {
		return err
	}

	for i, raw := range samples {
		if opts.index >= 0 && i != opts.index {
			continue
		}

		inst, err := dsdl.MakeInstance(reg, name, raw, dsdl.ModeLazy, dsdl.WithReader(reader), dsdl.WithLogger(a.logger))
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}

		if opts.path != "" {
			v, ok, err := dsdl.ValueAt(inst, opts.path)
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}

			if ok {
				a.out.KeyValue(fmt.Sprintf("#%d %s", i, opts.path), v)
			}

			continue
		}

		var values map[string]any
		if opts.pattern != "" {
			values, err = engine.ValuesMatching(inst, opts.pattern, kinds...)
		} else {
			values, err = dsdl.ExtractByKind(inst, kinds...)
		}

		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}

		a.printValues(i, values)
	}

	st := engine.Stats()
	a.out.Verbose(fmt.Sprintf("pattern cache: %d compiled, %d hits", st.Compiles, st.Hits))

	return nil
}

func (a *app) printValues(i int, values map[string]any) {
	paths := common.SortedKeys(values)
	slices.SortStableFunc(paths, comparePaths)

	for _, p := range paths {
		a.out.KeyValue(fmt.Sprintf("#%d %s", i, p), values[p])
	}
}

// comparePaths orders paths segment by segment, numeric segments by value.
func comparePaths(x, y string) int {
	xs, _ := extract.ParsePath(x)
	ys, _ := extract.ParsePath(y)

	for i := range min(len(xs), len(ys)) {
		if c := compareSegment(xs[i], ys[i]); c != 0 {
			return c
		}
	}

	return len(xs) - len(ys)
}

func compareSegment(x, y string) int {
	if xn, err := strconv.Atoi(x); err == nil {
		if yn, err := strconv.Atoi(y); err == nil {
			return xn - yn
		}
	}

	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
