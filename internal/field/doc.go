// Package field holds the field kind registry and the validators that turn
// raw sample values into typed value objects.
//
// Every built-in kind is registered once by DefaultRegistry. A kind entry
// parses its typed argument record from a type expression and builds a
// Validator for a compiled FieldSpec:
//
//	reg := field.DefaultRegistry()
//	v, err := reg.New(spec, field.Env{Domains: domains})
//	box, err := v.Validate([]any{1, 2, 3, 4})
//
// Domain-linked kinds (label, keypoint, label-map) need a DomainResolver in
// the Env and a spec whose domains are resolved. Unstructured kinds (image,
// video, point-cloud, label-map, instance-map) need a Reader; they keep the
// location and read bytes only when asked.
package field
