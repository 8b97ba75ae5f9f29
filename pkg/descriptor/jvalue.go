package descriptor

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/ajitpratap0/csfs/pkg/errors"
)

// DecodeJ converts a J token to the doubled-J convention.
//
//	"3/2"  -> 3   (numerator of a half-integer)
//	"4-"   -> 8   (integer, parity marker dropped)
//	"2"    -> 4
//	"5/2+" -> 5
func DecodeJ(tok string) (int32, error) {
	v, err := decode(tok, true)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// decode parses a J token. Fractions must have denominator 2 and yield
// their numerator. Integers are doubled only when doubleIntegers is set;
// intermediate-line integers are kept as written.
func decode(tok string, doubleIntegers bool) (int32, *errors.Error) {
	body := strings.TrimRightFunc(tok, func(r rune) bool { return !unicode.IsDigit(r) })
	if body == "" {
		return 0, badToken(tok)
	}

	if slash := strings.IndexByte(body, '/'); slash >= 0 {
		num, err := strconv.ParseInt(body[:slash], 10, 32)
		if err != nil || num < 0 || body[slash+1:] != "2" {
			return 0, badToken(tok)
		}
		return int32(num), nil
	}

	v, err := strconv.ParseInt(body, 10, 32)
	if err != nil || v < 0 {
		return 0, badToken(tok)
	}
	if doubleIntegers {
		if v > math.MaxInt32/2 {
			return 0, badToken(tok)
		}
		v *= 2
	}
	return int32(v), nil
}

func badToken(tok string) *errors.Error {
	return errors.Newf(errors.ErrorTypeParse, errors.KindBadToken, "cannot decode J token %q", tok).
		WithDetail("token", tok)
}
