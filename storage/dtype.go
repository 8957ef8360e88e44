package storage

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DType is the element type of a dataset.
type DType int

const (
	Float32 DType = iota + 1
	Float64
	Complex64
	Complex128
	Uint32
)

var dtypeNames = map[DType]string{
	Float32:    "float32",
	Float64:    "float64",
	Complex64:  "complex64",
	Complex128: "complex128",
	Uint32:     "uint32",
}

func (d DType) String() string {
	if s, ok := dtypeNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DType(%d)", int(d))
}

// ParseDType maps a name produced by [DType.String] back to a DType.
func ParseDType(s string) (DType, error) {
	for d, name := range dtypeNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown dtype %q", ErrDType, s)
}

// Size returns the element size in bytes.
func (d DType) Size() int {
	switch d {
	case Float32, Uint32:
		return 4
	case Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		return 0
	}
}

// IsComplex reports whether elements have an imaginary part.
func (d DType) IsComplex() bool { return d == Complex64 || d == Complex128 }

var le = binary.LittleEndian

func (d DType) putReal(b []byte, v float64) {
	switch d {
	case Float32:
		le.PutUint32(b, math.Float32bits(float32(v)))
	case Float64:
		le.PutUint64(b, math.Float64bits(v))
	case Uint32:
		le.PutUint32(b, uint32(v))
	case Complex64, Complex128:
		d.putComplex(b, complex(v, 0))
	}
}

func (d DType) getReal(b []byte) float64 {
	switch d {
	case Float32:
		return float64(math.Float32frombits(le.Uint32(b)))
	case Float64:
		return math.Float64frombits(le.Uint64(b))
	case Uint32:
		return float64(le.Uint32(b))
	default:
		return real(d.getComplex(b))
	}
}

func (d DType) putComplex(b []byte, v complex128) {
	switch d {
	case Complex64:
		le.PutUint32(b, math.Float32bits(float32(real(v))))
		le.PutUint32(b[4:], math.Float32bits(float32(imag(v))))
	case Complex128:
		le.PutUint64(b, math.Float64bits(real(v)))
		le.PutUint64(b[8:], math.Float64bits(imag(v)))
	default:
		d.putReal(b, real(v))
	}
}

func (d DType) getComplex(b []byte) complex128 {
	switch d {
	case Complex64:
		return complex(
			float64(math.Float32frombits(le.Uint32(b))),
			float64(math.Float32frombits(le.Uint32(b[4:]))),
		)
	case Complex128:
		return complex(
			math.Float64frombits(le.Uint64(b)),
			math.Float64frombits(le.Uint64(b[8:])),
		)
	default:
		return complex(d.getReal(b), 0)
	}
}
