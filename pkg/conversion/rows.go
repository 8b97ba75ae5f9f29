package conversion

import (
	"github.com/cespare/xxhash/v2"

	"github.com/ajitpratap0/csfs/pkg/descriptor"
	"github.com/ajitpratap0/csfs/pkg/errors"
	"github.com/ajitpratap0/csfs/pkg/formats/columnar"
	"github.com/ajitpratap0/csfs/pkg/normalize"
	"github.com/ajitpratap0/csfs/pkg/subshell"
)

// rowBuilder turns CSF records into output rows. It is immutable and
// shared by all workers.
type rowBuilder struct {
	gen *descriptor.Generator
	// exactly one of norm and electronCodes is set when normalizing
	norm          *normalize.Normalizer
	electronCodes []string
	lenient       bool
}

func newRowBuilder(peel []string, opts Options) (*rowBuilder, error) {
	b := &rowBuilder{lenient: opts.Lenient}
	if len(peel) == 0 {
		return b, nil
	}
	b.gen = descriptor.New(peel)
	if !opts.Normalize {
		return b, nil
	}

	codes := subshell.ToAngularList(peel)
	if opts.MaxCumulativeDoubledJ == 0 {
		for _, code := range codes {
			if !subshell.Known(code) {
				return nil, errors.Newf(errors.ErrorTypeNormalization, errors.KindUnknownSubshell,
					"unknown subshell %q in peel list", code).WithDetail("code", code)
			}
		}
		b.electronCodes = codes
		return b, nil
	}
	norm, err := normalize.New(codes, opts.MaxCumulativeDoubledJ)
	if err != nil {
		return nil, err
	}
	b.norm = norm
	return b, nil
}

// build converts the record at ordinal index. ok is false when the record
// was skipped by lenient parsing.
func (b *rowBuilder) build(index int64, lines [3]string) (row columnar.Row, ok bool, err error) {
	row = columnar.Row{
		Index: index,
		Line1: lines[0],
		Line2: lines[1],
		Line3: lines[2],
		Hash:  hashRecord(lines),
	}
	if b.gen == nil {
		return row, true, nil
	}

	desc, err := b.gen.ParseRecord(lines)
	if err != nil {
		if b.lenient && !errors.IsKind(err, errors.KindLengthMismatch) {
			return row, false, nil
		}
		return row, false, recordError(err, index)
	}
	row.Descriptor = desc

	switch {
	case b.norm != nil:
		row.Normalized, err = b.norm.Normalize(desc)
	case b.electronCodes != nil:
		row.Normalized, err = normalize.NormalizeElectrons(desc, b.electronCodes)
	}
	if err != nil {
		return row, false, recordError(err, index)
	}
	return row, true, nil
}

// hashRecord is xxhash64 over the three lines joined by newlines.
func hashRecord(lines [3]string) uint64 {
	return xxhash.Sum64String(lines[0] + "\n" + lines[1] + "\n" + lines[2])
}

func recordError(err error, index int64) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithDetail("csf_index", index)
	}
	return errors.Wrap(err, errors.ErrorTypeParse, "failed to convert record").WithDetail("csf_index", index)
}
