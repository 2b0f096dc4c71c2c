package utils

import "golang.org/x/exp/rand"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Sample draws n distinct elements of slice in random order, or all of them when n
// exceeds its length. The input is not modified.
func Sample[T any](rnd *rand.Rand, slice []T, n int) []T {
	if n > len(slice) {
		n = len(slice)
	}
	if n <= 0 {
		return nil
	}
	sampled := make([]T, 0, n)
	for _, i := range rnd.Perm(len(slice))[:n] {
		sampled = append(sampled, slice[i])
	}
	return sampled
}
