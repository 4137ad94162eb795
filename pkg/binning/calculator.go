package binning

import (
	"sync"

	"github.com/raykavin/signalscope/pkg/core"
	"golang.org/x/exp/slices"
)

// Calculator memoizes the last computed histogram and only recomputes when
// the sample, the method or its parameter changes
type Calculator struct {
	sync.Mutex
	method Method
	params Params
	sample []float64
	bins   []core.Bin
	err    error
	primed bool
	runs   int
}

// NewCalculator creates an empty calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Bins returns the bins for the given inputs, reusing the previous result
// when nothing changed
func (c *Calculator) Bins(sample []float64, method Method, params Params) ([]core.Bin, error) {
	c.Lock()
	defer c.Unlock()

	if c.primed && c.method == method && c.params == params && slices.Equal(c.sample, sample) {
		return slices.Clone(c.bins), c.err
	}

	c.method = method
	c.params = params
	c.sample = slices.Clone(sample)
	c.bins, c.err = Compute(sample, method, params)
	c.primed = true
	c.runs++

	return slices.Clone(c.bins), c.err
}

// Runs returns how many times the bins were actually computed
func (c *Calculator) Runs() int {
	c.Lock()
	defer c.Unlock()
	return c.runs
}
