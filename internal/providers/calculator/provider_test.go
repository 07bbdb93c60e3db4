package calculator

import (
	"context"
	"math"
	"testing"
)

func TestArithmetic(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	cases := []struct {
		tool string
		a, b float64
		want float64
	}{
		{"calc.add", 2, 3, 5},
		{"calc.subtract", 10, 4, 6},
		{"calc.multiply", 6, 7, 42},
		{"calc.divide", 9, 3, 3},
		{"calc.power", 2, 10, 1024},
	}
	for _, tc := range cases {
		result, err := p.Execute(ctx, tc.tool, map[string]interface{}{"a": tc.a, "b": tc.b}, nil)
		if err != nil || !result.Success {
			t.Fatalf("%s failed: %v", tc.tool, err)
		}
		if got := result.Data["result"].(float64); got != tc.want {
			t.Errorf("%s(%v, %v) = %v, want %v", tc.tool, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	p := NewProvider()
	result, _ := p.Execute(context.Background(), "calc.divide",
		map[string]interface{}{"a": 1.0, "b": 0.0}, nil)
	if result.Success {
		t.Error("expected division by zero to fail")
	}
}

func TestSqrtNegative(t *testing.T) {
	p := NewProvider()
	result, _ := p.Execute(context.Background(), "calc.sqrt",
		map[string]interface{}{"value": -4.0}, nil)
	if result.Success {
		t.Error("expected sqrt of negative to fail")
	}
}

func TestStatistics(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()
	numbers := []interface{}{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0}

	result, err := p.Execute(ctx, "calc.mean", map[string]interface{}{"numbers": numbers}, nil)
	if err != nil || !result.Success {
		t.Fatalf("mean failed: %v", err)
	}
	if got := result.Data["result"].(float64); got != 5.0 {
		t.Errorf("mean = %v, want 5", got)
	}

	result, _ = p.Execute(ctx, "calc.stdev", map[string]interface{}{"numbers": numbers}, nil)
	if !result.Success {
		t.Fatal("stdev failed")
	}
	// Sample stdev of this dataset is sqrt(32/7).
	want := math.Sqrt(32.0 / 7.0)
	if got := result.Data["result"].(float64); math.Abs(got-want) > 1e-9 {
		t.Errorf("stdev = %v, want %v", got, want)
	}

	result, _ = p.Execute(ctx, "calc.sum", map[string]interface{}{"numbers": numbers}, nil)
	if got := result.Data["result"].(float64); got != 40.0 {
		t.Errorf("sum = %v, want 40", got)
	}
}

func TestStatisticsRejectsEmpty(t *testing.T) {
	p := NewProvider()
	result, _ := p.Execute(context.Background(), "calc.mean",
		map[string]interface{}{"numbers": []interface{}{}}, nil)
	if result.Success {
		t.Error("expected mean of empty array to fail")
	}
}

func TestCorrelation(t *testing.T) {
	p := NewProvider()
	result, _ := p.Execute(context.Background(), "calc.correlation", map[string]interface{}{
		"x": []interface{}{1.0, 2.0, 3.0, 4.0},
		"y": []interface{}{2.0, 4.0, 6.0, 8.0},
	}, nil)
	if !result.Success {
		t.Fatal("correlation failed")
	}
	if got := result.Data["result"].(float64); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("correlation = %v, want 1", got)
	}
}

func TestEvaluateExpression(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	result, err := p.Execute(ctx, "calc.evaluate",
		map[string]interface{}{"expression": "(2 + 3) * 4"}, nil)
	if err != nil || !result.Success {
		t.Fatalf("evaluate failed: %v", err)
	}
	if got := result.Data["result"].(float64); got != 20.0 {
		t.Errorf("evaluate = %v, want 20", got)
	}

	result, _ = p.Execute(ctx, "calc.evaluate",
		map[string]interface{}{"expression": "Math.sqrt(144)"}, nil)
	if !result.Success {
		t.Fatal("Math.sqrt should be available")
	}
	if got := result.Data["result"].(float64); got != 12.0 {
		t.Errorf("Math.sqrt(144) = %v, want 12", got)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	p := NewProvider()
	result, _ := p.Execute(context.Background(), "calc.evaluate",
		map[string]interface{}{"expression": "while(true){}"}, nil)
	if result.Success {
		t.Error("expected infinite loop to be interrupted")
	}
}

func TestEvaluateStrippedGlobals(t *testing.T) {
	p := NewProvider()
	result, _ := p.Execute(context.Background(), "calc.evaluate",
		map[string]interface{}{"expression": "require('fs')"}, nil)
	if result.Success {
		t.Error("expected require to be unavailable")
	}
}
