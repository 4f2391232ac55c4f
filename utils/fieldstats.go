package utils

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type FieldStats struct {
	Min, Max, Mean, StdDev float64
	N                      int
}

func NewFieldStats(data []float64) (fs FieldStats) {
	fs.N = len(data)
	switch fs.N {
	case 0:
		return
	case 1:
		fs.Min, fs.Max, fs.Mean = data[0], data[0], data[0]
		return
	}
	fs.Min, fs.Max = floats.Min(data), floats.Max(data)
	fs.Mean, fs.StdDev = stat.MeanStdDev(data, nil)
	return
}

func (fs FieldStats) String() string {
	return fmt.Sprintf("min = %8.5f, max = %8.5f, mean = %8.5f, stddev = %8.5f",
		fs.Min, fs.Max, fs.Mean, fs.StdDev)
}
