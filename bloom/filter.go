// Package bloom provides a probabilistic prefilter for URL membership tests.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter answers "definitely not present" cheaply. A positive answer must
// be confirmed against an exact set.
type Filter struct {
	f        *bloom.BloomFilter
	capacity uint
	fpRate   float64
	added    uint
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f:        bloom.NewWithEstimates(n, fpRate),
		capacity: n,
		fpRate:   fpRate,
	}
}

// Add records a URL.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
	f.added++
}

// MayContain returns false if the URL was never added.
// True results may be false positives.
func (f *Filter) MayContain(url string) bool {
	return f.f.TestString(url)
}

// Saturated reports whether more URLs were added than the filter was sized
// for, meaning the false positive rate is above the configured one.
func (f *Filter) Saturated() bool {
	return f.added > f.capacity
}

// Grow returns an empty filter with twice the capacity and the same false
// positive rate. Callers re-add their members to it.
func (f *Filter) Grow() *Filter {
	return NewFilter(f.capacity*2, f.fpRate)
}

// Capacity returns the number of URLs the filter was sized for.
func (f *Filter) Capacity() uint {
	return f.capacity
}
