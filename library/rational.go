package library

import "math"

// NearestRational finds the fraction num/den, 1 <= den <= maxDenominator,
// that best approximates fps, via exhaustive search over denominators. The
// search space is small (maxDenominator is always 16 in practice) so a
// brute force beats a continued-fraction implementation for clarity.
func NearestRational(fps float64, maxDenominator int) (num, den int) {
	if fps <= 0 {
		return 30, 1
	}
	bestNum, bestDen := int(math.Round(fps)), 1
	bestErr := math.Abs(fps - float64(bestNum)/float64(bestDen))
	for d := 1; d <= maxDenominator; d++ {
		n := int(math.Round(fps * float64(d)))
		if n <= 0 {
			continue
		}
		err := math.Abs(fps - float64(n)/float64(d))
		if err < bestErr {
			bestErr, bestNum, bestDen = err, n, d
		}
	}
	return bestNum, bestDen
}
