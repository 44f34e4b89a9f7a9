package recipe

import (
	"fmt"
	"math"

	"github.com/knetic/govaluate"
)

var knownVars = map[string]bool{
	"x":      true,
	"y":      true,
	"width":  true,
	"height": true,
}

// pixelParams は式から参照される変数。ピクセルごとにmapを作らないためにGetを実装する。
type pixelParams struct {
	x, y          int
	width, height int
}

func (p *pixelParams) Get(name string) (interface{}, error) {
	switch name {
	case "x":
		return float64(p.x), nil
	case "y":
		return float64(p.y), nil
	case "width":
		return float64(p.width), nil
	case "height":
		return float64(p.height), nil
	}
	return nil, fmt.Errorf("unknown variable %q", name)
}

// evalChannel は式を評価して0〜255に折り返す
func evalChannel(expr *govaluate.EvaluableExpression, params govaluate.Parameters) (uint8, error) {
	result, err := expr.Eval(params)
	if err != nil {
		return 0, err
	}
	v, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("expression must be numeric, got %T", result)
	}
	return wrap(v)
}

// wrap は値を切り捨ててから256で割った余り (常に非負) を返す
func wrap(v float64) (uint8, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expression produced %v", v)
	}
	m := math.Mod(math.Floor(v), 256)
	if m < 0 {
		m += 256
	}
	return uint8(m), nil
}

// Functions は式の中で使える関数を返す
func Functions() map[string]govaluate.ExpressionFunction {
	return map[string]govaluate.ExpressionFunction{
		"min":   binary("min", math.Min),
		"max":   binary("max", math.Max),
		"abs":   unary("abs", math.Abs),
		"sqrt":  unary("sqrt", math.Sqrt),
		"sin":   unary("sin", math.Sin),
		"cos":   unary("cos", math.Cos),
		"floor": unary("floor", math.Floor),
		"hypot": binary("hypot", math.Hypot),
		"clamp": func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("clamp expects 1 argument, got %d", len(args))
			}
			v, ok := args[0].(float64)
			if !ok {
				return nil, fmt.Errorf("clamp: argument must be numeric")
			}
			return math.Max(0, math.Min(255, v)), nil
		},
	}
}

func unary(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
		}
		v, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("%s: argument must be numeric", name)
		}
		return f(v), nil
	}
}

func binary(name string, f func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
		}
		a, ok1 := args[0].(float64)
		b, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%s: arguments must be numeric", name)
		}
		return f(a, b), nil
	}
}
