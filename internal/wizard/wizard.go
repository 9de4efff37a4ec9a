// Package wizard drives a fixed ordered sequence of form steps over a single
// combined payload struct. Each step owns a disjoint subset of the payload's
// fields; forward navigation is gated on validating only the current step's
// fields, and the final submit validates the whole payload.
package wizard

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/vbtech/vbadmin/internal/validate"
)

// Step names one wizard step and the payload struct fields it owns. Fields
// are Go struct field names (nested fields use dotted paths).
type Step struct {
	Name   string
	Fields []string
}

// Controller tracks the current step index over a payload the caller mutates
// between navigation calls. It holds no state beyond the index and performs
// no I/O.
type Controller struct {
	validate *validator.Validate
	payload  any
	steps    []Step
	index    int
}

// New builds a controller over the payload. Steps must each own at least one
// field and no field may appear in more than one step.
func New(v *validator.Validate, payload any, steps ...Step) (*Controller, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("wizard requires at least one step")
	}
	seen := make(map[string]string)
	for _, step := range steps {
		if len(step.Fields) == 0 {
			return nil, fmt.Errorf("step %q owns no fields", step.Name)
		}
		for _, field := range step.Fields {
			if owner, dup := seen[field]; dup {
				return nil, fmt.Errorf("field %q owned by both %q and %q", field, owner, step.Name)
			}
			seen[field] = step.Name
		}
	}
	return &Controller{validate: v, payload: payload, steps: steps}, nil
}

// Step returns the current zero-based step index.
func (c *Controller) Step() int {
	return c.index
}

// StepCount returns the number of steps.
func (c *Controller) StepCount() int {
	return len(c.steps)
}

// IsStepValid reports whether every field owned by the given step currently
// satisfies its validation rule. Fields outside the step are never consulted.
func (c *Controller) IsStepValid(step int) bool {
	if step < 0 || step >= len(c.steps) {
		return false
	}
	return validate.StructPartial(c.validate, c.payload, c.steps[step].Fields...) == nil
}

// Next re-validates the current step's fields only. It advances the index by
// one iff they are all valid; otherwise the index is unchanged and the
// returned error carries the field-level failures.
func (c *Controller) Next() error {
	if err := validate.StructPartial(c.validate, c.payload, c.steps[c.index].Fields...); err != nil {
		return err
	}
	if c.index < len(c.steps)-1 {
		c.index++
	}
	return nil
}

// Prev decrements the step index without validating, floored at the first step.
func (c *Controller) Prev() {
	if c.index > 0 {
		c.index--
	}
}

// Submit validates the entire combined payload. It is only permitted from the
// last step.
func (c *Controller) Submit() error {
	if c.index != len(c.steps)-1 {
		return fmt.Errorf("submit is only reachable from the last step")
	}
	return validate.Struct(c.validate, c.payload)
}
