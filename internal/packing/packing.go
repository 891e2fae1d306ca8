// Package packing estimates how many identical boxes fit in a shipping
// container when all boxes share one orientation.
package packing

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrInvalidDimension = errors.New("dimensions must be positive")
	ErrUnknownContainer = errors.New("unknown container")
)

// Size is a container type key.
type Size string

const (
	Container20ft Size = "20ft"
	Container40ft Size = "40ft"
)

// maxCount is the largest count float64 still represents exactly.
const maxCount = 1 << 53

// Dimensions are inner measurements in centimetres.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

var containers = map[Size]Dimensions{
	Container20ft: {Length: 590, Width: 235, Height: 239},
	Container40ft: {Length: 1200, Width: 235, Height: 239},
}

// Orientations in evaluation order. Ties go to the earlier one.
var Orientations = []string{
	"as given",
	"length/width swapped",
	"length/height swapped",
	"width/height swapped",
	"rotated length-width-height",
	"rotated length-height-width",
}

// Result is the best single-orientation load for one container.
type Result struct {
	Container   Size
	Count       int
	Orientation string
}

// Sizes lists the known containers, smallest first.
func Sizes() []Size {
	out := make([]Size, 0, len(containers))
	for s := range containers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return containers[out[i]].Length < containers[out[j]].Length
	})
	return out
}

// Inner returns the inner dimensions of a container.
func Inner(size Size) (Dimensions, bool) {
	d, ok := containers[size]
	return d, ok
}

// Calculate returns the best count of length×width×height boxes for the
// container.
func Calculate(length, width, height float64, size Size) (Result, error) {
	for _, v := range []float64{length, width, height} {
		if !(v > 0) || math.IsInf(v, 1) {
			return Result{}, fmt.Errorf("%w: %v×%v×%v", ErrInvalidDimension, length, width, height)
		}
	}
	c, ok := containers[size]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownContainer, size)
	}

	fit := func(space, side float64) float64 { return math.Floor(space / side) }
	l, w, h := c.Length, c.Width, c.Height
	products := []float64{
		fit(l, length) * fit(w, width) * fit(h, height),
		fit(l, width) * fit(w, length) * fit(h, height),
		fit(l, height) * fit(w, width) * fit(h, length),
		fit(l, length) * fit(w, height) * fit(h, width),
		fit(l, width) * fit(w, height) * fit(h, length),
		fit(l, height) * fit(w, length) * fit(h, width),
	}
	counts := make([]int, len(products))
	for i, p := range products {
		if math.IsInf(p, 0) || math.IsNaN(p) || p > maxCount {
			return Result{}, fmt.Errorf("%w: %v×%v×%v is too small to count", ErrInvalidDimension, length, width, height)
		}
		counts[i] = int(p)
	}

	best := 0
	for i, n := range counts {
		if n > counts[best] {
			best = i
		}
	}
	return Result{Container: size, Count: counts[best], Orientation: Orientations[best]}, nil
}

// CalculateAll runs Calculate for every known container.
func CalculateAll(length, width, height float64) ([]Result, error) {
	var out []Result
	for _, size := range Sizes() {
		r, err := Calculate(length, width, height, size)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
