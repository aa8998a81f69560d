package document

import "math"

// Scale maps value from [0, domainMax] onto [rangeMin, rangeMax].
// A zero or non-finite domainMax yields rangeMin; a non-finite value counts as 0.
func Scale(value, domainMax, rangeMin, rangeMax float64) float64 {
	if domainMax == 0 || !finite(domainMax) {
		return rangeMin
	}
	if !finite(value) {
		value = 0
	}
	return rangeMin + (value/domainMax)*(rangeMax-rangeMin)
}

// IndexPosition places item i of n evenly along [rangeMin, rangeMax].
// A single item sits at the midpoint.
func IndexPosition(i, n int, rangeMin, rangeMax float64) float64 {
	if n <= 1 {
		return (rangeMin + rangeMax) / 2
	}
	return Scale(float64(i), float64(n-1), rangeMin, rangeMax)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clean(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}
