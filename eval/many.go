package eval

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	"github.com/cygnusbill/spelunkpath/ast"
	"github.com/cygnusbill/spelunkpath/host"
)

// manyResult carries one host's outcome back from its pool goroutine.
type manyResult[N comparable] struct {
	nodes    []N
	warnings []EvalWarning
	err      error
}

// EvaluateMany evaluates the same compiled path against many hosts in
// parallel: the bounded pool a caller querying a whole workspace of
// trees would otherwise write itself, offered as a convenience rather
// than forced on every caller (Evaluate itself never spawns
// goroutines). hosts and starts must be the same length; starts[i]
// is the current node passed to Evaluate for hosts[i].
//
// Results preserve input order: out[i] corresponds to hosts[i]
// regardless of completion order. Per-host errors are combined with
// multierr so a failure evaluating against one host doesn't hide
// failures from the others.
func EvaluateMany[N comparable](path *ast.PathExpr, hosts []host.SyntaxHost[N], starts []N, opts *Options) ([][]N, []EvalWarning, error) {
	if len(hosts) != len(starts) {
		return nil, nil, &EvalError{Kind: ErrHostFailure, Reason: "hosts and starts must have the same length", Step: -1}
	}
	if len(hosts) == 0 {
		return nil, nil, nil
	}

	// Each goroutine owns exactly one slot of results, so slot writes
	// need no lock and out[i] always corresponds to hosts[i] regardless
	// of completion order.
	results := make([]manyResult[N], len(hosts))
	p := pool.New().WithMaxGoroutines(maxGoroutines(len(hosts)))
	for i := range hosts {
		i := i
		p.Go(func() {
			nodes, warnings, err := Evaluate(path, hosts[i], starts[i], opts)
			results[i] = manyResult[N]{nodes: nodes, warnings: warnings, err: err}
		})
	}
	p.Wait()

	out := make([][]N, len(results))
	var allWarnings []EvalWarning
	var combined error
	for i, r := range results {
		out[i] = r.nodes
		allWarnings = append(allWarnings, r.warnings...)
		combined = multierr.Append(combined, r.err)
	}
	return out, allWarnings, combined
}

func maxGoroutines(n int) int {
	if n < 1 {
		return 1
	}
	if g := runtime.GOMAXPROCS(0); n > g {
		return g
	}
	return n
}
