// Package normalize scales CSF descriptors into the unit range used for ML
// features.
//
// Each (electrons, 2·J_middle, 2·J_coupling) triplet is divided by the
// physical bound of its subshell: the electron capacity, kappa² and a
// caller-chosen maximum cumulative doubled J.
package normalize

import (
	"github.com/ajitpratap0/csfs/pkg/errors"
	"github.com/ajitpratap0/csfs/pkg/subshell"
)

// Properties are the normalization bounds of one subshell.
type Properties struct {
	MaxElectrons          int
	KappaSquared          int
	MaxCumulativeDoubledJ int
}

// Flat returns the bounds in descriptor order.
func (p Properties) Flat() [3]float64 {
	return [3]float64{float64(p.MaxElectrons), float64(p.KappaSquared), float64(p.MaxCumulativeDoubledJ)}
}

// PropertiesFor looks up the bounds of a subshell. code may be in full
// ("4d-") or angular ("d-") notation.
func PropertiesFor(code string, maxCumulativeDoubledJ int) (Properties, error) {
	angular := subshell.ToAngular(code)
	maxE, ok := subshell.MaxElectrons(angular)
	if !ok {
		return Properties{}, unknownSubshell(code)
	}
	k2, _ := subshell.KappaSquared(angular)
	return Properties{
		MaxElectrons:          maxE,
		KappaSquared:          k2,
		MaxCumulativeDoubledJ: maxCumulativeDoubledJ,
	}, nil
}

// PropertiesForList returns the flattened bounds of every code, three per
// code, in input order.
func PropertiesForList(codes []string, maxCumulativeDoubledJ int) ([]float64, error) {
	out := make([]float64, 0, 3*len(codes))
	for _, code := range codes {
		p, err := PropertiesFor(code, maxCumulativeDoubledJ)
		if err != nil {
			return nil, err
		}
		flat := p.Flat()
		out = append(out, flat[:]...)
	}
	return out, nil
}

// Reciprocals returns 1/x for every property.
func Reciprocals(props []float64) ([]float64, error) {
	out := make([]float64, len(props))
	for i, p := range props {
		if p == 0 {
			return nil, errors.Newf(errors.ErrorTypeNormalization, errors.KindDivideByZero,
				"property %d is zero", i).WithDetail("position", i)
		}
		out[i] = 1 / p
	}
	return out, nil
}

// Normalize scales desc by the reciprocal bounds of codes. desc must hold
// exactly three values per code.
func Normalize(desc []int32, codes []string, maxCumulativeDoubledJ int) ([]float32, error) {
	n, err := New(codes, maxCumulativeDoubledJ)
	if err != nil {
		return nil, err
	}
	return n.Normalize(desc)
}

// BatchNormalize normalizes every descriptor. The first failure aborts the
// batch and carries the failing element's position in the "index" detail.
func BatchNormalize(descs [][]int32, codes []string, maxCumulativeDoubledJ int) ([][]float32, error) {
	n, err := New(codes, maxCumulativeDoubledJ)
	if err != nil {
		return nil, err
	}
	return n.Batch(descs)
}

// Normalizer caches the reciprocal bounds for a fixed subshell list. It is
// immutable once built and safe for concurrent use.
type Normalizer struct {
	codes       []string
	reciprocals []float64
}

// New builds a Normalizer for codes.
func New(codes []string, maxCumulativeDoubledJ int) (*Normalizer, error) {
	props, err := PropertiesForList(codes, maxCumulativeDoubledJ)
	if err != nil {
		return nil, err
	}
	recips, err := Reciprocals(props)
	if err != nil {
		return nil, err
	}
	c := make([]string, len(codes))
	copy(c, codes)
	return &Normalizer{codes: c, reciprocals: recips}, nil
}

// Size is the descriptor length this normalizer accepts.
func (n *Normalizer) Size() int {
	return len(n.reciprocals)
}

// Reciprocals returns a copy of the cached reciprocal vector.
func (n *Normalizer) Reciprocals() []float64 {
	out := make([]float64, len(n.reciprocals))
	copy(out, n.reciprocals)
	return out
}

// Normalize scales one descriptor.
func (n *Normalizer) Normalize(desc []int32) ([]float32, error) {
	if len(desc) != len(n.reciprocals) {
		return nil, lengthMismatch(len(desc), len(n.codes))
	}
	out := make([]float32, len(desc))
	for i, v := range desc {
		out[i] = float32(float64(v) * n.reciprocals[i])
	}
	return out, nil
}

// Batch normalizes descs, failing fast.
func (n *Normalizer) Batch(descs [][]int32) ([][]float32, error) {
	out := make([][]float32, len(descs))
	for i, desc := range descs {
		norm, err := n.Normalize(desc)
		if err != nil {
			return nil, annotate(err, i)
		}
		out[i] = norm
	}
	return out, nil
}

func unknownSubshell(code string) *errors.Error {
	return errors.Newf(errors.ErrorTypeNormalization, errors.KindUnknownSubshell,
		"unknown subshell %q", code).WithDetail("code", code)
}

func lengthMismatch(got, codes int) *errors.Error {
	return errors.Newf(errors.ErrorTypeNormalization, errors.KindLengthMismatch,
		"descriptor has %d values, expected %d for %d subshells", got, 3*codes, codes).
		WithDetail("length", got)
}

func annotate(err error, index int) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithDetail("index", index)
	}
	return errors.Wrap(err, errors.ErrorTypeNormalization, "batch element failed").WithDetail("index", index)
}
