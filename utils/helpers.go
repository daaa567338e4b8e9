package utils

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
)

// ReadTextFile slurps a file into a string, used for shader sources.
func ReadTextFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	defer file.Close()

	var body string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		body += scanner.Text() + "\n"
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read text file %s: %w", path, err)
	}
	return body, nil
}

// Midpoint returns the integer midpoint of two indices.
func Midpoint(a, b int) int {
	return (a + b) / 2
}

// Average returns the mean of its arguments.
func Average(nums ...float32) float32 {
	var total float32
	for _, num := range nums {
		total += num
	}
	return total / float32(len(nums))
}

// Jitter shifts value by a uniform random offset in [-scale, scale] drawn
// from the provided source.
func Jitter(rng *rand.Rand, value, scale float32) float32 {
	return value + scale - rng.Float32()*scale*2
}
