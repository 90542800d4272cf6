package model

import "math"

func BoundImageSize(v int) int {
	return int(math.Max(32, math.Min(1024, float64(v)))) // Default: 224
}

func BoundBatchSize(v int) int {
	return int(math.Max(1, math.Min(4096, float64(v)))) // Default: 64
}

func BoundThreshold(v float64) float64 {
	return math.Max(0, math.Min(1, v)) // Default: 0.5
}

func BoundBeta(v float64) float64 {
	return math.Max(0.1, math.Min(10, v)) // Default: 2
}

func BoundValidationSplit(v float64) float64 {
	return math.Max(0, math.Min(0.9, v)) // Default: 0.2
}
