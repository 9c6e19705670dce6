package field

import (
	"fmt"
	"slices"
	"strconv"

	"dsdl-go/internal/common"
	"dsdl-go/internal/descriptor"
)

// RawArgs holds kind arguments as written: key -> values. Single values
// have one entry; bracketed lists may have several.
type RawArgs map[string][]string

// String returns the single value of key.
func (a RawArgs) String(key string) (string, bool, error) {
	v, ok := a[key]
	if !ok {
		return "", false, nil
	}

	if !common.IsSingle(v) {
		return "", true, fmt.Errorf("argument %q takes a single value", key)
	}

	return v[0], true, nil
}

// Only fails if any key outside allowed is present.
func (a RawArgs) Only(allowed ...string) error {
	for _, k := range common.SortedKeys(a) {
		if !slices.Contains(allowed, k) {
			if len(allowed) == 0 {
				return fmt.Errorf("unexpected argument %q: kind takes no arguments", k)
			}

			return fmt.Errorf("unexpected argument %q (accepted: %v)", k, allowed)
		}
	}

	return nil
}

func (a RawArgs) oneOf(key, def string, values ...string) (string, error) {
	v, ok, err := a.String(key)
	if err != nil || !ok {
		return def, err
	}

	if !slices.Contains(values, v) {
		return "", fmt.Errorf("argument %s=%s: expected one of %v", key, v, values)
	}

	return v, nil
}

func parseNoArgs(a RawArgs) (descriptor.Args, error) {
	return descriptor.NoArgs{}, a.Only()
}

func parseBBoxArgs(a RawArgs) (descriptor.Args, error) {
	if err := a.Only("mode"); err != nil {
		return nil, err
	}

	mode, err := a.oneOf("mode", descriptor.BBoxXYWH, descriptor.BBoxXYWH, descriptor.BBoxXYXY)
	if err != nil {
		return nil, err
	}

	return descriptor.BBoxArgs{Mode: mode}, nil
}

func parseRotatedBBoxArgs(a RawArgs) (descriptor.Args, error) {
	if err := a.Only("mode", "measure"); err != nil {
		return nil, err
	}

	mode, err := a.oneOf("mode", descriptor.RotatedXYWHT, descriptor.RotatedXYWHT, descriptor.RotatedXYXYXYXY)
	if err != nil {
		return nil, err
	}

	measure, err := a.oneOf("measure", descriptor.MeasureRadian, descriptor.MeasureRadian, descriptor.MeasureDegree)
	if err != nil {
		return nil, err
	}

	return descriptor.RotatedBBoxArgs{Mode: mode, Measure: measure}, nil
}

func parseDomainArgs(a RawArgs) (descriptor.Args, error) {
	if err := a.Only("dom"); err != nil {
		return nil, err
	}

	doms, ok := a["dom"]
	if !ok || len(doms) == 0 {
		return nil, fmt.Errorf("missing required argument %q", "dom")
	}

	return descriptor.DomainArgs{Domains: common.Dedup(doms)}, nil
}

func parseSingleDomainArgs(a RawArgs) (descriptor.Args, error) {
	args, err := parseDomainArgs(a)
	if err != nil {
		return nil, err
	}

	if d := args.(descriptor.DomainArgs).Domains; len(d) != 1 {
		return nil, fmt.Errorf("argument dom takes exactly one class domain, got %v", d)
	}

	return args, nil
}

// Default strftime layouts of the date and time kinds.
const (
	DefaultDateFormat = "%Y-%m-%d"
	DefaultTimeFormat = "%H:%M:%S"
)

func timeArgsParser(def string) func(RawArgs) (descriptor.Args, error) {
	return func(a RawArgs) (descriptor.Args, error) {
		if err := a.Only("fmt"); err != nil {
			return nil, err
		}

		f, ok, err := a.String("fmt")
		if err != nil {
			return nil, err
		}

		if !ok || f == "" {
			f = def
		}

		return descriptor.TimeArgs{Format: f}, nil
	}
}

// Identifier types accepted by unique-id.
const (
	IDTypeAny  = "any"
	IDTypeUUID = "uuid"
	IDTypeInt  = "int"
)

func parseUniqueIDArgs(a RawArgs) (descriptor.Args, error) {
	if err := a.Only("id_type"); err != nil {
		return nil, err
	}

	t, err := a.oneOf("id_type", IDTypeAny, IDTypeAny, IDTypeUUID, IDTypeInt)
	if err != nil {
		return nil, err
	}

	return descriptor.UniqueIDArgs{IDType: t}, nil
}

// DefaultPointCloudDims is the number of float32 values per point when
// the dims argument is absent (x, y, z, intensity).
const DefaultPointCloudDims = 4

func parsePointCloudArgs(a RawArgs) (descriptor.Args, error) {
	if err := a.Only("dims"); err != nil {
		return nil, err
	}

	s, ok, err := a.String("dims")
	if err != nil {
		return nil, err
	}

	if !ok {
		return descriptor.PointCloudArgs{Dims: DefaultPointCloudDims}, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 3 {
		return nil, fmt.Errorf("argument dims=%s: expected an integer >= 3", s)
	}

	return descriptor.PointCloudArgs{Dims: n}, nil
}
