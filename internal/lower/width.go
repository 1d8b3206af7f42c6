package lower

import (
	"math"

	"github.com/golangsnmp/asnc/internal/native"
	"github.com/golangsnmp/asnc/internal/schema"
)

// integer lowers an INTEGER range to the narrowest width holding it.
func integer(r schema.Range) *native.Integer {
	var lo, hi *int64
	if r.Min != nil {
		v := r.Min.MustLiteral()
		lo = &v
	}
	if r.Max != nil {
		v := r.Max.MustLiteral()
		hi = &v
	}
	out := &native.Integer{Width: width(lo, hi), Min: lo, Max: hi, Extensible: r.Extensible}
	if lo != nil && *lo == 0 && hi == nil {
		out.Min = nil
	}
	return out
}

// width picks an unsigned width when the range cannot go negative and a
// signed one otherwise. The signed width must hold max(|min+1|, max), so
// the most negative value still negates without overflow.
func width(lo, hi *int64) native.Width {
	switch {
	case lo == nil && hi == nil:
		return native.U64
	case lo != nil && *lo >= 0:
		if hi == nil {
			return native.U64
		}
		return unsignedWidth(uint64(*hi))
	case lo == nil || hi == nil:
		return native.I64
	}
	return signedWidth(max(-(*lo + 1), *hi))
}

func unsignedWidth(v uint64) native.Width {
	switch {
	case v <= math.MaxUint8:
		return native.U8
	case v <= math.MaxUint16:
		return native.U16
	case v <= math.MaxUint32:
		return native.U32
	}
	return native.U64
}

func signedWidth(amplitude int64) native.Width {
	switch {
	case amplitude <= math.MaxInt8:
		return native.I8
	case amplitude <= math.MaxInt16:
		return native.I16
	case amplitude <= math.MaxInt32:
		return native.I32
	}
	return native.I64
}

func size(s schema.Size) native.Size {
	out := native.Size{Extensible: s.Extensible}
	if s.Min != nil {
		v := s.Min.MustLiteral()
		out.Min = &v
	}
	if s.Max != nil {
		v := s.Max.MustLiteral()
		out.Max = &v
	}
	return out
}
