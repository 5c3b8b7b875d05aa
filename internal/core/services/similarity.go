package services

import (
	"math"

	"gonum.org/v1/gonum/blas/blas32"
)

// CosineSimilarity returns the cosine of the angle between a and b,
// clamped to [-1, 1]. Vectors of different length, empty vectors and
// zero-norm vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	vecA := blas32.Vector{N: len(a), Inc: 1, Data: a}
	vecB := blas32.Vector{N: len(b), Inc: 1, Data: b}

	normA := float64(blas32.Nrm2(vecA))
	normB := float64(blas32.Nrm2(vecB))
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := float64(blas32.Dot(vecA, vecB)) / (normA * normB)
	return math.Max(-1, math.Min(1, sim))
}
