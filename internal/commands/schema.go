package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dsdl-go/dsdl"
	"dsdl-go/internal/field"
	"dsdl-go/internal/media"
)

// compile compiles a schema file with the configured import paths.
func (a *app) compile(file string, report bool) (*dsdl.Registry, *dsdl.Result, error) {
	reg := dsdl.NewRegistry()

	res, err := dsdl.CompileFile(reg, file, dsdl.Options{
		ImportPaths: a.cfg.ImportPaths,
		ReportMode:  report,
		Logger:      a.logger,
	})

	return reg, res, err
}

// reader returns the media reader for the configured media root, or nil.
func (a *app) reader() (field.Reader, error) {
	if a.cfg.MediaRoot == "" {
		return nil, nil
	}

	r, err := media.NewLocalReader(a.cfg.MediaRoot, media.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	return r, nil
}

// samplesFile is the layout of a sample data file. A bare top-level list
// of samples is accepted too.
type samplesFile struct {
	Meta    map[string]any   `yaml:"meta"`
	Samples []map[string]any `yaml:"samples"`
}

func loadSamples(file string) ([]map[string]any, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}

	var list []map[string]any
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc samplesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse samples %s: %w", file, err)
	}

	return doc.Samples, nil
}

// structName returns name, or the struct behind the registry's sample type.
func structName(reg *dsdl.Registry, name string) (string, error) {
	if name != "" {
		return name, nil
	}

	st := reg.SampleType()
	if st == nil {
		return "", fmt.Errorf("schema declares no sample type; pass --struct")
	}

	ref, ok := st.StructRef()
	if !ok {
		return "", fmt.Errorf("sample type %s is not a struct; pass --struct", st)
	}

	return ref.Name, nil
}
