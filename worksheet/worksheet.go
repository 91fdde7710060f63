// Package worksheet evaluates YAML derivation worksheets: named source
// expressions plus a sequence of algebra steps, the batch form of working
// through a normal-ordering derivation by hand.
//
//	exprs:
//	  n: a+_a
//	  drive: a(+)a+
//	steps:
//	  - name: n2
//	    op: pow
//	    args: [n]
//	    exponent: 2
//	  - name: h
//	    op: add
//	    args: [n2, drive]
package worksheet

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bosonic/ladders"
)

// Step is one derivation step. Ops: add, mul (both fold over two or more
// args left to right), scale (one arg plus factor, written in coefficient
// syntax), pow (one arg plus exponent).
type Step struct {
	Name     string   `yaml:"name"`
	Op       string   `yaml:"op"`
	Args     []string `yaml:"args"`
	Factor   string   `yaml:"factor,omitempty"`
	Exponent int      `yaml:"exponent,omitempty"`
}

// Document is a parsed worksheet.
type Document struct {
	Exprs map[string]string `yaml:"exprs"`
	Steps []Step            `yaml:"steps"`
}

// Load parses worksheet YAML. Unknown fields are rejected.
func Load(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("worksheet: %w", err)
	}
	return &d, nil
}

// Run evaluates the worksheet and returns every named Expression, the parsed
// sources and the step results together. Steps may reference any earlier
// name; duplicate names and unknown references are errors.
func (d *Document) Run() (map[string]*ladders.Expression, error) {
	results := make(map[string]*ladders.Expression, len(d.Exprs)+len(d.Steps))
	for name, src := range d.Exprs {
		e, err := ladders.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("worksheet: expr %q: %w", name, err)
		}
		results[name] = e
	}

	lookup := func(step Step, name string) (*ladders.Expression, error) {
		e, ok := results[name]
		if !ok {
			return nil, fmt.Errorf("worksheet: step %q: unknown expression %q", step.Name, name)
		}
		return e, nil
	}

	for _, step := range d.Steps {
		if step.Name == "" {
			return nil, fmt.Errorf("worksheet: step without a name")
		}
		if _, dup := results[step.Name]; dup {
			return nil, fmt.Errorf("worksheet: duplicate name %q", step.Name)
		}
		out, err := d.eval(step, lookup)
		if err != nil {
			return nil, err
		}
		results[step.Name] = out
	}
	return results, nil
}

func (d *Document) eval(step Step, lookup func(Step, string) (*ladders.Expression, error)) (*ladders.Expression, error) {
	switch step.Op {
	case "add", "mul":
		if len(step.Args) < 2 {
			return nil, fmt.Errorf("worksheet: step %q: %s needs at least two args", step.Name, step.Op)
		}
		acc, err := lookup(step, step.Args[0])
		if err != nil {
			return nil, err
		}
		for _, name := range step.Args[1:] {
			e, err := lookup(step, name)
			if err != nil {
				return nil, err
			}
			if step.Op == "add" {
				acc = acc.Add(e)
			} else {
				acc = acc.Mul(e)
			}
		}
		return acc, nil

	case "scale":
		if len(step.Args) != 1 {
			return nil, fmt.Errorf("worksheet: step %q: scale needs exactly one arg", step.Name)
		}
		e, err := lookup(step, step.Args[0])
		if err != nil {
			return nil, err
		}
		c, err := ladders.ParseCoefficient(step.Factor)
		if err != nil {
			return nil, fmt.Errorf("worksheet: step %q: factor: %w", step.Name, err)
		}
		return e.Scale(c), nil

	case "pow":
		if len(step.Args) != 1 {
			return nil, fmt.Errorf("worksheet: step %q: pow needs exactly one arg", step.Name)
		}
		if step.Exponent < 0 {
			return nil, fmt.Errorf("worksheet: step %q: exponent must be non-negative", step.Name)
		}
		e, err := lookup(step, step.Args[0])
		if err != nil {
			return nil, err
		}
		return e.Pow(step.Exponent), nil
	}
	return nil, fmt.Errorf("worksheet: step %q: unknown op %q", step.Name, step.Op)
}
