// Package tool exposes the ladder-operator algebra as a JSON tool interface
// for agent frameworks. Expressions cross the boundary as
//
//	{"terms": {"a+_a": {"re": 2, "im": 0}, ...}, "modes": ["a"]}
//
// since complex coefficients have no native JSON representation.
package tool

import (
	"fmt"
	"sort"

	"github.com/bosonic/ladders"
	"github.com/bosonic/ladders/render"
)

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	Text   string      `json:"text,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ExprToJSON converts an Expression to its boundary representation.
func ExprToJSON(e *ladders.Expression) map[string]interface{} {
	terms := make(map[string]interface{}, e.NumTerms())
	for key, coeff := range e.Terms() {
		terms[key] = map[string]interface{}{"re": real(coeff), "im": imag(coeff)}
	}
	modes := make([]string, 0, len(e.Modes()))
	for _, m := range e.Modes() {
		modes = append(modes, string(m))
	}
	sort.Strings(modes)
	return map[string]interface{}{"terms": terms, "modes": modes}
}

// ExprFromJSON rebuilds an Expression from its boundary representation. The
// mode list is ignored on input; it is recomputed from the term keys.
func ExprFromJSON(data map[string]interface{}) (*ladders.Expression, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	rawTerms, ok := data["terms"]
	if !ok {
		return nil, fmt.Errorf("expression: missing \"terms\"")
	}
	termsObj, ok := rawTerms.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("expression: \"terms\" must be an object")
	}
	terms := make(map[string]complex128, len(termsObj))
	for key, v := range termsObj {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expression: coefficient of %q must be an object", key)
		}
		re, err := jsonNumber(obj, "re")
		if err != nil {
			return nil, fmt.Errorf("expression: coefficient of %q: %w", key, err)
		}
		im, err := jsonNumber(obj, "im")
		if err != nil {
			return nil, fmt.Errorf("expression: coefficient of %q: %w", key, err)
		}
		terms[key] = complex(re, im)
	}
	return ladders.FromTerms(terms)
}

func jsonNumber(obj map[string]interface{}, field string) (float64, error) {
	v, ok := obj[field]
	if !ok {
		return 0, fmt.Errorf("missing %q", field)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%q must be a number", field)
	}
	return f, nil
}

// HandleToolCall dispatches a tool request. Errors are reported in the
// response, never panicked.
func HandleToolCall(req ToolRequest) ToolResponse {
	getExpr := func(key string) (*ladders.Expression, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be an expression object", key)
		}
		return ExprFromJSON(obj)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		f, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	getMode := func(key string) (rune, error) {
		s, err := getString(key)
		if err != nil {
			return 0, err
		}
		r := []rune(s)
		if len(r) != 1 {
			return 0, fmt.Errorf("param %s must be a single mode letter", key)
		}
		return r[0], nil
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }
	respond := func(e *ladders.Expression) ToolResponse {
		return ToolResponse{Result: ExprToJSON(e), Text: render.Text(e), LaTeX: render.LaTeX(e)}
	}

	switch req.Tool {
	case "parse":
		src, err := getString("source")
		if err != nil {
			return fail(err)
		}
		e, err := ladders.Parse(src)
		if err != nil {
			return fail(err)
		}
		return respond(e)

	case "add":
		a, err := getExpr("a")
		if err != nil {
			return fail(err)
		}
		b, err := getExpr("b")
		if err != nil {
			return fail(err)
		}
		return respond(a.Add(b))

	case "mul":
		a, err := getExpr("a")
		if err != nil {
			return fail(err)
		}
		b, err := getExpr("b")
		if err != nil {
			return fail(err)
		}
		return respond(a.Mul(b))

	case "scale":
		a, err := getExpr("a")
		if err != nil {
			return fail(err)
		}
		factor, err := getString("factor")
		if err != nil {
			return fail(err)
		}
		c, err := ladders.ParseCoefficient(factor)
		if err != nil {
			return fail(fmt.Errorf("param factor: %w", err))
		}
		return respond(a.Scale(c))

	case "pow":
		a, err := getExpr("a")
		if err != nil {
			return fail(err)
		}
		n, err := getNumber("exponent")
		if err != nil {
			return fail(err)
		}
		if n < 0 || n != float64(int(n)) {
			return fail(fmt.Errorf("param exponent must be a non-negative integer"))
		}
		return respond(a.Pow(int(n)))

	case "kerr":
		a, err := getExpr("a")
		if err != nil {
			return fail(err)
		}
		mode, err := getMode("mode")
		if err != nil {
			return fail(err)
		}
		c := ladders.Kerr(a, mode)
		return ToolResponse{
			Result: map[string]interface{}{"re": real(c), "im": imag(c)},
			Text:   ladders.FormatCoefficient(c),
		}

	case "cross_kerr":
		a, err := getExpr("a")
		if err != nil {
			return fail(err)
		}
		m1, err := getMode("mode1")
		if err != nil {
			return fail(err)
		}
		m2, err := getMode("mode2")
		if err != nil {
			return fail(err)
		}
		c := ladders.CrossKerr(a, m1, m2)
		return ToolResponse{
			Result: map[string]interface{}{"re": real(c), "im": imag(c)},
			Text:   ladders.FormatCoefficient(c),
		}

	case "equivalent":
		a, err := getExpr("a")
		if err != nil {
			return fail(err)
		}
		b, err := getExpr("b")
		if err != nil {
			return fail(err)
		}
		tol, err := getNumber("tolerance")
		if err != nil {
			tol = 1e-9
		}
		return ToolResponse{
			Result: ladders.Equivalent(a, b, tol),
			Text:   ladders.Diff(a, b, tol),
		}
	}
	return fail(fmt.Errorf("unknown tool: %s", req.Tool))
}

// Spec returns the JSON tool schema for agent registration.
func Spec() string {
	return `{
  "tools": [
    {"name": "parse", "description": "Parse ladder-operator source text into a normal-ordered expression", "params": {"source": "string, e.g. 2a+_a(+)b+_b(+)1"}},
    {"name": "add", "description": "Sum of two expressions", "params": {"a": "expression", "b": "expression"}},
    {"name": "mul", "description": "Operator product a*b, normal ordered", "params": {"a": "expression", "b": "expression"}},
    {"name": "scale", "description": "Scalar multiple of an expression", "params": {"a": "expression", "factor": "coefficient string, e.g. 3+4.j"}},
    {"name": "pow", "description": "Non-negative integer power of an expression", "params": {"a": "expression", "exponent": "integer"}},
    {"name": "kerr", "description": "Self-Kerr coefficient of a mode", "params": {"a": "expression", "mode": "letter"}},
    {"name": "cross_kerr", "description": "Cross-Kerr coefficient of a mode pair", "params": {"a": "expression", "mode1": "letter", "mode2": "letter"}},
    {"name": "equivalent", "description": "Tolerance-aware comparison of two expressions", "params": {"a": "expression", "b": "expression", "tolerance": "number, default 1e-9"}}
  ]
}`
}
