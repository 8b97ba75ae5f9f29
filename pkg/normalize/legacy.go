package normalize

import (
	"github.com/ajitpratap0/csfs/pkg/subshell"
)

// NormalizeElectronCount divides n by the capacity of code. The result is
// not clamped: overfilled counts give values above 1.
func NormalizeElectronCount(n int, code string) (float32, error) {
	maxE, ok := subshell.MaxElectrons(subshell.ToAngular(code))
	if !ok {
		return 0, unknownSubshell(code)
	}
	return float32(n) / float32(maxE), nil
}

// NormalizeElectrons scales only the electron counts of desc; the J values
// are passed through unchanged. It needs no cumulative J bound.
func NormalizeElectrons(desc []int32, codes []string) ([]float32, error) {
	if len(desc) != 3*len(codes) {
		return nil, lengthMismatch(len(desc), len(codes))
	}
	out := make([]float32, len(desc))
	for i, code := range codes {
		v, err := NormalizeElectronCount(int(desc[3*i]), code)
		if err != nil {
			return nil, err
		}
		out[3*i] = v
		out[3*i+1] = float32(desc[3*i+1])
		out[3*i+2] = float32(desc[3*i+2])
	}
	return out, nil
}

// BatchNormalizeElectrons applies NormalizeElectrons to every descriptor,
// failing fast with the element index attached.
func BatchNormalizeElectrons(descs [][]int32, codes []string) ([][]float32, error) {
	out := make([][]float32, len(descs))
	for i, desc := range descs {
		norm, err := NormalizeElectrons(desc, codes)
		if err != nil {
			return nil, annotate(err, i)
		}
		out[i] = norm
	}
	return out, nil
}
