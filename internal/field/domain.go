package field

import (
	"fmt"
	"strings"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
)

func resolveDomains(spec *descriptor.FieldSpec, env Env) ([]*descriptor.ClassDomain, error) {
	args, ok := spec.Args.(descriptor.DomainArgs)
	if !ok || len(args.Domains) == 0 {
		return nil, fmt.Errorf("%s field: %w", spec.Kind, errdefs.ErrDomainUnresolved)
	}

	if refs := args.Unresolved(); len(refs) > 0 {
		return nil, fmt.Errorf("%s field: parameter %s: %w", spec.Kind, strings.Join(refs, ", "), errdefs.ErrDomainUnresolved)
	}

	if env.Domains == nil {
		return nil, fmt.Errorf("%s field: no class domain registry: %w", spec.Kind, errdefs.ErrDomainUnresolved)
	}

	out := make([]*descriptor.ClassDomain, 0, len(args.Domains))

	for _, name := range args.Domains {
		d, err := env.Domains.Domain(name)
		if err != nil {
			return nil, fmt.Errorf("%s field: %w", spec.Kind, err)
		}

		out = append(out, d)
	}

	return out, nil
}

type labelValidator struct {
	domains []*descriptor.ClassDomain
}

func newLabelValidator(spec *descriptor.FieldSpec, env Env) (Validator, error) {
	doms, err := resolveDomains(spec, env)
	if err != nil {
		return nil, err
	}

	return &labelValidator{domains: doms}, nil
}

func (v *labelValidator) Kind() descriptor.FieldKind { return descriptor.KindLabel }

// Validate accepts a category name, a "Domain::name" qualified name, or a
// 1-based category index when the field has a single domain.
func (v *labelValidator) Validate(raw any) (any, error) {
	const kind = "label"

	switch val := raw.(type) {
	case string:
		if dom, name, ok := descriptor.SplitQualified(val); ok {
			for _, d := range v.domains {
				if d.Name != dom {
					continue
				}

				if c, ok := d.Category(name); ok {
					return Label{Category: c}, nil
				}

				return nil, invalid(kind, "%q is not a category of %s", name, dom)
			}

			return nil, invalid(kind, "class domain %s is not accepted here (accepted: %s)", dom, v.domainNames())
		}

		for _, d := range v.domains {
			if c, ok := d.Category(val); ok {
				return Label{Category: c}, nil
			}
		}

		return nil, invalid(kind, "%q is not a category of %s", val, v.domainNames())

	default:
		idx, ok := toInt(raw)
		if !ok {
			return nil, invalid(kind, "expected a category name or index, got %s", describe(raw))
		}

		if len(v.domains) != 1 {
			return nil, invalid(kind, "index %d is ambiguous across class domains %s", idx, v.domainNames())
		}

		c, ok := v.domains[0].At(int(idx))
		if !ok {
			return nil, invalid(kind, "index %d out of range 1..%d of %s", idx, v.domains[0].Len(), v.domains[0].Name)
		}

		return Label{Category: c}, nil
	}
}

func (v *labelValidator) domainNames() string {
	names := make([]string, len(v.domains))
	for i, d := range v.domains {
		names[i] = d.Name
	}

	return strings.Join(names, ", ")
}

type keypointValidator struct {
	domain *descriptor.ClassDomain
}

func newKeypointValidator(spec *descriptor.FieldSpec, env Env) (Validator, error) {
	doms, err := resolveDomains(spec, env)
	if err != nil {
		return nil, err
	}

	return &keypointValidator{domain: doms[0]}, nil
}

func (v *keypointValidator) Kind() descriptor.FieldKind { return descriptor.KindKeypoint }

// Validate accepts one [x, y] or [x, y, visible] entry per category, in
// category order.
func (v *keypointValidator) Validate(raw any) (any, error) {
	const kind = "keypoint"

	seq, ok := toSeq(raw)
	if !ok {
		return nil, invalid(kind, "expected a list of points, got %s", describe(raw))
	}

	if len(seq) != v.domain.Len() {
		return nil, invalid(kind, "expected %d points (one per category of %s), got %d", v.domain.Len(), v.domain.Name, len(seq))
	}

	kp := Keypoints{Domain: v.domain, Points: make([]Keypoint, len(seq))}

	for i, item := range seq {
		pt, ok := toSeq(item)
		if !ok || (len(pt) != 2 && len(pt) != 3) {
			return nil, invalid(kind, "point %d: expected [x, y] or [x, y, v]", i)
		}

		n, err := numbers(kind, pt, len(pt))
		if err != nil {
			return nil, invalid(kind, "point %d: %s", i, err.(*errdefs.ValidationError).Msg)
		}

		vis := KeypointVisible
		if len(n) == 3 {
			vis = int(n[2])
			if vis < KeypointNotLabeled || vis > KeypointVisible || float64(vis) != n[2] {
				return nil, invalid(kind, "point %d: visibility must be 0, 1 or 2", i)
			}
		}

		kp.Points[i] = Keypoint{Category: v.domain.Categories[i], X: n[0], Y: n[1], Visible: vis}
	}

	return kp, nil
}
