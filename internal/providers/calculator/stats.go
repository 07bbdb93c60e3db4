package calculator

import (
	"fmt"
	gomath "math"
	"sort"

	"github.com/420btc/mymac/internal/shared/types"
	"gonum.org/v1/gonum/stat"
)

func statsTools() []types.Tool {
	numbers := []types.Parameter{
		{Name: "numbers", Type: "array", Description: "Array of numbers", Required: true},
	}
	pair := []types.Parameter{
		{Name: "x", Type: "array", Description: "First dataset", Required: true},
		{Name: "y", Type: "array", Description: "Second dataset", Required: true},
	}
	return []types.Tool{
		{ID: "calc.mean", Name: "Mean", Description: "Arithmetic mean", Parameters: numbers, Returns: "number"},
		{ID: "calc.median", Name: "Median", Description: "Median value", Parameters: numbers, Returns: "number"},
		{ID: "calc.stdev", Name: "Standard Deviation", Description: "Sample standard deviation", Parameters: numbers, Returns: "number"},
		{ID: "calc.variance", Name: "Variance", Description: "Sample variance", Parameters: numbers, Returns: "number"},
		{ID: "calc.min", Name: "Minimum", Description: "Smallest value", Parameters: numbers, Returns: "number"},
		{ID: "calc.max", Name: "Maximum", Description: "Largest value", Parameters: numbers, Returns: "number"},
		{ID: "calc.sum", Name: "Sum", Description: "Sum of all numbers", Parameters: numbers, Returns: "number"},
		{
			ID: "calc.percentile", Name: "Percentile", Description: "Nth percentile",
			Parameters: append(append([]types.Parameter{}, numbers...),
				types.Parameter{Name: "p", Type: "number", Description: "Percentile (0-100)", Required: true}),
			Returns: "number",
		},
		{ID: "calc.correlation", Name: "Correlation", Description: "Pearson correlation coefficient", Parameters: pair, Returns: "number"},
	}
}

func (c *Provider) stats(toolID string, params map[string]interface{}) (*types.Result, error) {
	if toolID == "calc.correlation" {
		return c.correlation(params)
	}

	numbers, ok := getNumbers(params, "numbers")
	if !ok || len(numbers) == 0 {
		return failure("numbers array required")
	}
	for _, n := range numbers {
		if gomath.IsNaN(n) || gomath.IsInf(n, 0) {
			return failure("numbers must be finite")
		}
	}

	switch toolID {
	case "calc.mean":
		return success(map[string]interface{}{"result": stat.Mean(numbers, nil)})
	case "calc.median":
		sorted := sortedCopy(numbers)
		return success(map[string]interface{}{"result": stat.Quantile(0.5, stat.Empirical, sorted, nil)})
	case "calc.stdev":
		if len(numbers) < 2 {
			return failure("at least 2 numbers required")
		}
		variance := stat.Variance(numbers, nil)
		return success(map[string]interface{}{
			"result":   gomath.Sqrt(variance),
			"variance": variance,
			"mean":     stat.Mean(numbers, nil),
		})
	case "calc.variance":
		if len(numbers) < 2 {
			return failure("at least 2 numbers required")
		}
		return success(map[string]interface{}{"result": stat.Variance(numbers, nil)})
	case "calc.min":
		min := numbers[0]
		for _, n := range numbers[1:] {
			min = gomath.Min(min, n)
		}
		return success(map[string]interface{}{"result": min})
	case "calc.max":
		max := numbers[0]
		for _, n := range numbers[1:] {
			max = gomath.Max(max, n)
		}
		return success(map[string]interface{}{"result": max})
	case "calc.sum":
		sum := 0.0
		for _, n := range numbers {
			sum += n
		}
		return success(map[string]interface{}{"result": sum})
	case "calc.percentile":
		p, ok := getNumber(params, "p")
		if !ok || p < 0 || p > 100 {
			return failure("p parameter required (0-100)")
		}
		sorted := sortedCopy(numbers)
		return success(map[string]interface{}{"result": stat.Quantile(p/100.0, stat.Empirical, sorted, nil)})
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (c *Provider) correlation(params map[string]interface{}) (*types.Result, error) {
	x, ok := getNumbers(params, "x")
	if !ok || len(x) == 0 {
		return failure("x array required")
	}
	y, ok := getNumbers(params, "y")
	if !ok || len(y) == 0 {
		return failure("y array required")
	}
	if len(x) != len(y) {
		return failure("x and y arrays must have same length")
	}
	if len(x) < 2 {
		return failure("arrays must have at least 2 elements")
	}

	return success(map[string]interface{}{"result": stat.Correlation(x, y, nil)})
}

func sortedCopy(numbers []float64) []float64 {
	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)
	return sorted
}
