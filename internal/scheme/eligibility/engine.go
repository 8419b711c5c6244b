// Package eligibility evaluates a scheme's criteria against a citizen profile.
//
// Evaluation is a pure function of (profile, scheme): no I/O, no clock, no
// randomness. Compiled CEL programs are memoized by expression text, which
// does not change results.
package eligibility

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	profile "onegov/internal/profile/models"
	"onegov/internal/scheme/models"
	dErrors "onegov/pkg/domain-errors"
)

const celCostLimit = 10000

// Engine evaluates schemes. It is safe for concurrent use.
type Engine struct {
	env      *cel.Env
	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewEngine builds the CEL environment exposed to expression criteria.
func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("age", cel.IntType),
		cel.Variable("annual_income", cel.IntType),
		cel.Variable("gender", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("occupation", cel.StringType),
		cel.Variable("state", cel.StringType),
		cel.Variable("has_bpl_card", cel.BoolType),
		cel.Variable("extra", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Engine{env: env, programs: make(map[string]cel.Program)}, nil
}

// Evaluate checks every criterion in declaration order and collects the
// description of each failing one.
//
// Errors: CodeConfiguration when any criterion is malformed. A malformed
// criterion never counts as met or unmet.
func (e *Engine) Evaluate(p *profile.CitizenProfile, s models.Scheme) (models.Result, error) {
	unmet := make([]string, 0)
	for i, c := range s.Criteria {
		met, err := e.check(p, c)
		if err != nil {
			return models.Result{}, dErrors.Wrap(err, dErrors.CodeConfiguration,
				fmt.Sprintf("scheme %s criterion %d is malformed", s.ID, i))
		}
		if !met {
			unmet = append(unmet, Describe(c))
		}
	}

	status := models.StatusEligible
	if len(unmet) > 0 {
		status = models.StatusNearlyEligible
	}
	return models.Result{SchemeID: s.ID, Status: status, Unmet: unmet}, nil
}

// Validate reports the first malformed criterion of s without evaluating it.
func (e *Engine) Validate(s models.Scheme) error {
	for i, c := range s.Criteria {
		if err := e.validateCriterion(c); err != nil {
			return dErrors.Wrap(err, dErrors.CodeConfiguration,
				fmt.Sprintf("scheme %s criterion %d is malformed", s.ID, i))
		}
	}
	return nil
}

func (e *Engine) check(p *profile.CitizenProfile, c models.Criterion) (bool, error) {
	if err := e.validateCriterion(c); err != nil {
		return false, err
	}
	if p == nil {
		p = &profile.CitizenProfile{}
	}

	switch c.Type {
	case models.CriterionAgeBetween:
		if p.Age == nil {
			return false, nil
		}
		if c.MinAge != nil && *p.Age < *c.MinAge {
			return false, nil
		}
		if c.MaxAge != nil && *p.Age > *c.MaxAge {
			return false, nil
		}
		return true, nil
	case models.CriterionCategoryIn:
		return oneOf(string(p.Category), c.Values), nil
	case models.CriterionGenderIn:
		return oneOf(p.Gender, c.Values), nil
	case models.CriterionOccupationIn:
		return oneOf(p.Occupation, c.Values), nil
	case models.CriterionOccupationEquals:
		return oneOf(p.Occupation, []string{c.Value}), nil
	case models.CriterionStateIn:
		return oneOf(p.State, c.Values), nil
	case models.CriterionIncomeBelow:
		if p.AnnualIncome == nil {
			return false, nil
		}
		return *p.AnnualIncome < *c.Limit, nil
	case models.CriterionBPLCard:
		return p.HasBPLCard != nil && *p.HasBPLCard, nil
	case models.CriterionExpression:
		return e.evalExpr(c.Expr, activation(p))
	default:
		return false, fmt.Errorf("unknown criterion type %q", c.Type)
	}
}

func (e *Engine) validateCriterion(c models.Criterion) error {
	switch c.Type {
	case models.CriterionAgeBetween:
		if c.MinAge == nil && c.MaxAge == nil {
			return fmt.Errorf("age_between needs min_age or max_age")
		}
		if (c.MinAge != nil && *c.MinAge < 0) || (c.MaxAge != nil && *c.MaxAge < 0) {
			return fmt.Errorf("age bounds must be non-negative")
		}
		if c.MinAge != nil && c.MaxAge != nil && *c.MinAge > *c.MaxAge {
			return fmt.Errorf("min_age exceeds max_age")
		}
	case models.CriterionCategoryIn, models.CriterionGenderIn, models.CriterionOccupationIn, models.CriterionStateIn:
		if len(c.Values) == 0 {
			return fmt.Errorf("%s needs at least one value", c.Type)
		}
		for _, v := range c.Values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%s values must be non-empty", c.Type)
			}
		}
	case models.CriterionOccupationEquals:
		if strings.TrimSpace(c.Value) == "" {
			return fmt.Errorf("occupation_equals needs a value")
		}
	case models.CriterionIncomeBelow:
		if c.Limit == nil || *c.Limit < 0 {
			return fmt.Errorf("income_below needs a non-negative limit")
		}
	case models.CriterionBPLCard:
	case models.CriterionExpression:
		if strings.TrimSpace(c.Description) == "" {
			return fmt.Errorf("expression criteria need a description")
		}
		if _, err := e.program(c.Expr); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown criterion type %q", c.Type)
	}
	return nil
}

// evalExpr counts an absent profile attribute or extra key as unmet. Any other
// runtime error (type mismatch, cost limit) is a malformed criterion.
func (e *Engine) evalExpr(expr string, vars map[string]any) (bool, error) {
	prg, err := e.program(expr)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(vars)
	if err != nil {
		if missingInput(err) {
			return false, nil
		}
		return false, fmt.Errorf("expression %q failed: %w", expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q did not yield a bool", expr)
	}
	return b, nil
}

func missingInput(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such attribute") || strings.Contains(msg, "no such key")
}

func (e *Engine) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, hit := e.programs[expr]
	e.mu.RUnlock()
	if hit {
		return prg, nil
	}

	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("expression is empty")
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile: %w", issues.Err())
	}
	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression %q has type %s, want bool", expr, out)
	}
	prg, err := e.env.Program(ast, cel.CostLimit(celCostLimit))
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}

	e.mu.Lock()
	e.programs[expr] = prg
	e.mu.Unlock()
	return prg, nil
}

// activation binds declared attributes only, so undeclared ones are absent
// rather than zero.
func activation(p *profile.CitizenProfile) map[string]any {
	vars := map[string]any{}
	if p.Age != nil {
		vars["age"] = int64(*p.Age)
	}
	if p.AnnualIncome != nil {
		vars["annual_income"] = *p.AnnualIncome
	}
	if p.HasBPLCard != nil {
		vars["has_bpl_card"] = *p.HasBPLCard
	}
	for name, v := range map[string]string{
		"gender":     p.Gender,
		"category":   string(p.Category),
		"occupation": p.Occupation,
		"state":      p.State,
	} {
		if v != "" {
			vars[name] = v
		}
	}
	extra := make(map[string]any, len(p.Extra))
	for k, v := range p.Extra {
		extra[k] = v
	}
	vars["extra"] = extra
	return vars
}

func oneOf(v string, allowed []string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(v, strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}

// Describe renders the user-facing text listed when c is unmet.
func Describe(c models.Criterion) string {
	if c.Description != "" {
		return c.Description
	}
	switch c.Type {
	case models.CriterionAgeBetween:
		switch {
		case c.MinAge != nil && c.MaxAge != nil:
			return fmt.Sprintf("Age between %d and %d years", *c.MinAge, *c.MaxAge)
		case c.MinAge != nil:
			return fmt.Sprintf("Minimum age: %d years", *c.MinAge)
		case c.MaxAge != nil:
			return fmt.Sprintf("Maximum age: %d years", *c.MaxAge)
		}
	case models.CriterionCategoryIn:
		return "Category: " + strings.Join(c.Values, ", ")
	case models.CriterionGenderIn:
		return "Gender: " + strings.Join(c.Values, ", ")
	case models.CriterionOccupationIn:
		return "Occupation: " + strings.Join(c.Values, ", ")
	case models.CriterionOccupationEquals:
		return "Occupation: " + c.Value
	case models.CriterionStateIn:
		return "State: " + strings.Join(c.Values, ", ")
	case models.CriterionIncomeBelow:
		if c.Limit != nil {
			return "Annual income below ₹" + strconv.FormatInt(*c.Limit, 10)
		}
	case models.CriterionBPLCard:
		return "BPL card required"
	}
	return string(c.Type)
}
