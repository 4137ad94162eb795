// Package binning converts a sample of returns into histogram bins using a
// selectable bin-count rule.
package binning

import (
	"strings"

	"github.com/raykavin/signalscope/pkg/core"
)

// Method selects the rule used to derive the number of bins
type Method string

const (
	MethodSturges          Method = "sturges"
	MethodScott            Method = "scott"
	MethodFreedmanDiaconis Method = "freedman-diaconis"
	MethodSqrt             Method = "sqrt"
	MethodFixedWidth       Method = "fixed-width"
	MethodFixedCount       Method = "fixed-count"
)

const (
	// DefaultBinCount is used by fixed-width when no positive width is given
	DefaultBinCount = 20
	// MaxBins is the upper bound of a requested fixed bin count
	MaxBins = 200
	// MaxComputedBins bounds the count derived by any rule
	MaxComputedBins = 10000
)

// Methods lists every supported method in display order
var Methods = []Method{
	MethodSturges,
	MethodScott,
	MethodFreedmanDiaconis,
	MethodSqrt,
	MethodFixedWidth,
	MethodFixedCount,
}

// Params carries the parameter of the fixed methods
type Params struct {
	Width float64 `json:"width"`
	Count int     `json:"count"`
}

// ParseMethod resolves a method name, case-insensitively
func ParseMethod(name string) (Method, error) {
	method := Method(strings.ToLower(strings.TrimSpace(name)))
	if !method.Valid() {
		return "", &core.UnknownMethodError{Method: name}
	}
	return method, nil
}

// Valid reports whether the method is supported
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

func (m Method) String() string {
	return string(m)
}
