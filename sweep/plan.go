// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sweep runs an evaluation engine over the Cartesian product of hyper-parameters
// and cross-validation folds.
package sweep

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/gorse-io/experiment/config"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Combination is one point of the plan: a value per parameter and a fold.
type Combination struct {
	// Values are aligned with Plan.Names.
	Values []string
	Fold   int
}

type level struct {
	name   string
	values []string
	fold   bool
}

// Plan enumerates the invocations of a sweep.
type Plan struct {
	program         string
	args            []string
	levels          []level
	names           []string
	kinds           map[string]reflect.Kind
	trainingPattern string
	testPattern     string
	filterFunc      *vm.Program
}

// NewPlan builds a plan from a validated configuration.
func NewPlan(cfg *config.Config) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	plan := &Plan{
		program:         cfg.Program,
		args:            cfg.Args,
		kinds:           map[string]reflect.Kind{config.FoldParam: reflect.Int},
		trainingPattern: cfg.TrainingPattern,
		testPattern:     cfg.TestPattern,
	}
	folds := lo.Map(lo.Range(cfg.Folds), func(fold int, _ int) string {
		return strconv.Itoa(fold)
	})
	for _, param := range cfg.Params {
		if param.Name == config.FoldParam {
			plan.levels = append(plan.levels, level{name: param.Name, values: folds, fold: true})
			continue
		}
		plan.levels = append(plan.levels, level{name: param.Name, values: param.Values})
		plan.names = append(plan.names, param.Name)
		plan.kinds[param.Name] = kindOf(param.Values)
	}
	if !lo.SomeBy(plan.levels, func(l level) bool { return l.fold }) {
		plan.levels = append(plan.levels, level{name: config.FoldParam, values: folds, fold: true})
	}

	if cfg.Filter != "" {
		sample := make(map[string]any, len(plan.kinds))
		for name, kind := range plan.kinds {
			sample[name] = zeroOf(kind)
		}
		filterFunc, err := expr.Compile(cfg.Filter, expr.Env(sample))
		if err != nil {
			return nil, errors.Annotate(err, "compile filter")
		}
		if filterFunc.Node().Type().Kind() != reflect.Bool {
			return nil, errors.NotValidf("filter %q not returning bool", cfg.Filter)
		}
		plan.filterFunc = filterFunc
	}
	return plan, nil
}

// Names returns the parameter names in declaration order, fold excluded.
func (p *Plan) Names() []string {
	return p.names
}

// Len returns the number of combinations before filtering.
func (p *Plan) Len() int {
	n := 1
	for _, l := range p.levels {
		n *= len(l.values)
	}
	return n
}

// Enumerate returns every combination. The first parameter is the outermost loop.
func (p *Plan) Enumerate() []Combination {
	total := p.Len()
	if total == 0 {
		return nil
	}
	combinations := make([]Combination, 0, total)
	indices := make([]int, len(p.levels))
	for {
		var c Combination
		for i, l := range p.levels {
			if l.fold {
				c.Fold = indices[i]
			} else {
				c.Values = append(c.Values, l.values[indices[i]])
			}
		}
		combinations = append(combinations, c)

		j := len(p.levels) - 1
		for ; j >= 0; j-- {
			indices[j]++
			if indices[j] < len(p.levels[j].values) {
				break
			}
			indices[j] = 0
		}
		if j < 0 {
			return combinations
		}
	}
}

// Accept evaluates the filter on a combination. Every combination is accepted without
// a filter.
func (p *Plan) Accept(c Combination) (bool, error) {
	if p.filterFunc == nil {
		return true, nil
	}
	result, err := expr.Run(p.filterFunc, p.env(c))
	if err != nil {
		return false, errors.Annotate(err, "evaluate filter")
	}
	return result.(bool), nil
}

func (p *Plan) env(c Combination) map[string]any {
	env := map[string]any{config.FoldParam: c.Fold}
	for i, name := range p.names {
		env[name] = convert(c.Values[i], p.kinds[name])
	}
	return env
}

// TrainingPath returns the training set of a fold.
func (p *Plan) TrainingPath(fold int) string {
	return strings.ReplaceAll(p.trainingPattern, config.FoldPlaceholder, strconv.Itoa(fold))
}

// TestPath returns the test set of a fold.
func (p *Plan) TestPath(fold int) string {
	return strings.ReplaceAll(p.testPattern, config.FoldPlaceholder, strconv.Itoa(fold))
}

// Command returns the full argument list of a combination, program first.
func (p *Plan) Command(c Combination) []string {
	command := make([]string, 0, 3+len(p.args)+len(c.Values))
	command = append(command, p.program)
	command = append(command, p.args...)
	command = append(command, c.Values...)
	return append(command, p.TrainingPath(c.Fold), p.TestPath(c.Fold))
}

// kindOf picks the narrowest type holding every value of a parameter.
func kindOf(values []string) reflect.Kind {
	isInt := lo.EveryBy(values, func(v string) bool {
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	})
	if isInt {
		return reflect.Int
	}
	isFloat := lo.EveryBy(values, func(v string) bool {
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	})
	if isFloat {
		return reflect.Float64
	}
	return reflect.String
}

func zeroOf(kind reflect.Kind) any {
	switch kind {
	case reflect.Int:
		return 0
	case reflect.Float64:
		return 0.0
	default:
		return ""
	}
}

func convert(value string, kind reflect.Kind) any {
	switch kind {
	case reflect.Int:
		i, _ := strconv.Atoi(value)
		return i
	case reflect.Float64:
		f, _ := strconv.ParseFloat(value, 64)
		return f
	default:
		return value
	}
}
