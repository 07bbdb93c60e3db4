package calculator

import (
	"context"
	"fmt"
	gomath "math"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// DefaultEvalTimeout bounds a single expression evaluation.
const DefaultEvalTimeout = 250 * time.Millisecond

const maxExpressionLen = 4096

// Evaluator runs arithmetic expressions inside a goja VM with dangerous
// globals stripped and a Math object exposed.
type Evaluator struct {
	vm      *goja.Runtime
	timeout time.Duration
	mu      sync.Mutex
}

// NewEvaluator creates an evaluator with the given per-call timeout.
func NewEvaluator(timeout time.Duration) *Evaluator {
	e := &Evaluator{
		vm:      goja.New(),
		timeout: timeout,
	}
	e.setupGlobals()
	return e
}

func (e *Evaluator) setupGlobals() {
	e.vm.SetMaxCallStackSize(256)

	// Nothing host-facing is reachable from an expression.
	e.vm.Set("require", goja.Undefined())
	e.vm.Set("process", goja.Undefined())
	e.vm.Set("module", goja.Undefined())
	e.vm.Set("exports", goja.Undefined())
	e.vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		return goja.Undefined()
	})
	e.vm.Set("setInterval", func(call goja.FunctionCall) goja.Value {
		return goja.Undefined()
	})
}

// Evaluate runs the expression and returns its numeric result. Evaluation
// is interrupted once the timeout elapses or ctx is cancelled.
func (e *Evaluator) Evaluate(ctx context.Context, expression string) (float64, error) {
	if len(expression) > maxExpressionLen {
		return 0, fmt.Errorf("expression too long")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-timer.C:
			e.vm.Interrupt("evaluation timeout exceeded")
		case <-ctx.Done():
			e.vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	val, err := e.vm.RunString(expression)
	if err != nil {
		e.vm.ClearInterrupt()
		return 0, err
	}

	result := val.ToFloat()
	if gomath.IsNaN(result) || gomath.IsInf(result, 0) {
		return 0, fmt.Errorf("expression did not produce a finite number")
	}
	return result, nil
}
