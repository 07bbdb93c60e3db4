package calculator

import (
	"context"
	"fmt"
	gomath "math"

	"github.com/420btc/mymac/internal/shared/types"
)

// Provider implements the Calculator pane backend: basic arithmetic,
// descriptive statistics and a sandboxed expression evaluator.
type Provider struct {
	eval *Evaluator
}

// NewProvider creates a calculator provider.
func NewProvider() *Provider {
	return &Provider{eval: NewEvaluator(DefaultEvalTimeout)}
}

// Definition returns service metadata.
func (c *Provider) Definition() types.Service {
	tools := []types.Tool{
		{
			ID:          "calc.add",
			Name:        "Add",
			Description: "Add two numbers",
			Parameters:  binaryParams(),
			Returns:     "number",
		},
		{
			ID:          "calc.subtract",
			Name:        "Subtract",
			Description: "Subtract b from a",
			Parameters:  binaryParams(),
			Returns:     "number",
		},
		{
			ID:          "calc.multiply",
			Name:        "Multiply",
			Description: "Multiply two numbers",
			Parameters:  binaryParams(),
			Returns:     "number",
		},
		{
			ID:          "calc.divide",
			Name:        "Divide",
			Description: "Divide a by b",
			Parameters:  binaryParams(),
			Returns:     "number",
		},
		{
			ID:          "calc.power",
			Name:        "Power",
			Description: "Raise a to the power of b",
			Parameters:  binaryParams(),
			Returns:     "number",
		},
		{
			ID:          "calc.sqrt",
			Name:        "Square Root",
			Description: "Square root of a non-negative number",
			Parameters: []types.Parameter{
				{Name: "value", Type: "number", Description: "Input value", Required: true},
			},
			Returns: "number",
		},
		{
			ID:          "calc.percent",
			Name:        "Percent",
			Description: "Calculate p percent of a value",
			Parameters: []types.Parameter{
				{Name: "value", Type: "number", Description: "Base value", Required: true},
				{Name: "p", Type: "number", Description: "Percentage", Required: true},
			},
			Returns: "number",
		},
		{
			ID:          "calc.evaluate",
			Name:        "Evaluate Expression",
			Description: "Evaluate an arithmetic expression in a sandboxed VM",
			Parameters: []types.Parameter{
				{Name: "expression", Type: "string", Description: "Expression to evaluate", Required: true},
			},
			Returns: "number",
		},
	}
	tools = append(tools, statsTools()...)

	return types.Service{
		ID:          "calc",
		Name:        "Calculator",
		Description: "Arithmetic, descriptive statistics and expression evaluation",
		Category:    types.CategoryUtility,
		Capabilities: []string{
			"arithmetic",
			"statistics",
			"evaluate",
		},
		Tools: tools,
	}
}

// Execute runs a calculator operation.
func (c *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "calc.add":
		return c.binary(params, func(a, b float64) (float64, error) { return a + b, nil })
	case "calc.subtract":
		return c.binary(params, func(a, b float64) (float64, error) { return a - b, nil })
	case "calc.multiply":
		return c.binary(params, func(a, b float64) (float64, error) { return a * b, nil })
	case "calc.divide":
		return c.binary(params, func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return a / b, nil
		})
	case "calc.power":
		return c.binary(params, func(a, b float64) (float64, error) { return gomath.Pow(a, b), nil })
	case "calc.sqrt":
		return c.sqrt(params)
	case "calc.percent":
		return c.percent(params)
	case "calc.evaluate":
		return c.evaluate(ctx, params)
	case "calc.mean", "calc.median", "calc.stdev", "calc.variance",
		"calc.min", "calc.max", "calc.sum", "calc.percentile",
		"calc.correlation":
		return c.stats(toolID, params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (c *Provider) binary(params map[string]interface{}, op func(a, b float64) (float64, error)) (*types.Result, error) {
	a, ok := getNumber(params, "a")
	if !ok {
		return failure("a parameter required")
	}
	b, ok := getNumber(params, "b")
	if !ok {
		return failure("b parameter required")
	}

	result, err := op(a, b)
	if err != nil {
		return failure(err.Error())
	}
	if gomath.IsInf(result, 0) || gomath.IsNaN(result) {
		return failure("result out of range")
	}

	return success(map[string]interface{}{"result": result})
}

func (c *Provider) sqrt(params map[string]interface{}) (*types.Result, error) {
	value, ok := getNumber(params, "value")
	if !ok {
		return failure("value parameter required")
	}
	if value < 0 {
		return failure("cannot take square root of negative number")
	}
	return success(map[string]interface{}{"result": gomath.Sqrt(value)})
}

func (c *Provider) percent(params map[string]interface{}) (*types.Result, error) {
	value, ok := getNumber(params, "value")
	if !ok {
		return failure("value parameter required")
	}
	p, ok := getNumber(params, "p")
	if !ok {
		return failure("p parameter required")
	}
	return success(map[string]interface{}{"result": value * p / 100})
}

func (c *Provider) evaluate(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	expr, ok := params["expression"].(string)
	if !ok || expr == "" {
		return failure("expression parameter required")
	}

	value, err := c.eval.Evaluate(ctx, expr)
	if err != nil {
		return failure(fmt.Sprintf("evaluation failed: %v", err))
	}

	return success(map[string]interface{}{"result": value})
}

func binaryParams() []types.Parameter {
	return []types.Parameter{
		{Name: "a", Type: "number", Description: "First operand", Required: true},
		{Name: "b", Type: "number", Description: "Second operand", Required: true},
	}
}

func getNumber(params map[string]interface{}, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func getNumbers(params map[string]interface{}, key string) ([]float64, bool) {
	raw, ok := params[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(raw))
	for _, item := range raw {
		n, ok := item.(float64)
		if !ok {
			if i, isInt := item.(int); isInt {
				n = float64(i)
			} else {
				return nil, false
			}
		}
		out = append(out, n)
	}
	return out, true
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
