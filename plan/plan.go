// Package plan models filesystem mutations as an ordered list of
// actions with rollback, so a failed split leaves either the
// pre-operation tree or a cleanly restorable one, never a half-written
// document.
package plan

import (
	"errors"
	"fmt"

	"github.com/opencontrolkit/shard/debug"
)

type Action interface {
	Execute() error
	Rollback() error
}

// cleaner is implemented by actions that keep backup files around until
// the whole plan has succeeded.
type cleaner interface {
	Cleanup() error
}

type Plan struct {
	actions []Action
}

func (p *Plan) Add(a Action) {
	p.actions = append(p.actions, a)
}

func (p *Plan) Len() int {
	return len(p.actions)
}

// Execute runs all actions in order. On the first failure the already
// executed actions are rolled back in reverse and the original error is
// returned (joined with any rollback errors).
func (p *Plan) Execute() error {
	for i, a := range p.actions {
		if debug.Plan() {
			debug.Logf("plan: execute %v\n", a)
		}
		err := a.Execute()
		if err == nil {
			continue
		}
		errs := []error{err}
		for j := i - 1; j >= 0; j-- {
			if rbErr := p.actions[j].Rollback(); rbErr != nil {
				errs = append(errs, fmt.Errorf("rollback: %w", rbErr))
			}
		}
		return errors.Join(errs...)
	}
	return nil
}

// Rollback undoes all actions in reverse order.
func (p *Plan) Rollback() error {
	var errs []error
	for i := len(p.actions) - 1; i >= 0; i-- {
		if debug.Plan() {
			debug.Logf("plan: rollback %v\n", p.actions[i])
		}
		if err := p.actions[i].Rollback(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Cleanup discards backups held by executed actions. Call only after a
// successful Execute; rollback is impossible afterwards.
func (p *Plan) Cleanup() error {
	var errs []error
	for _, a := range p.actions {
		c, ok := a.(cleaner)
		if !ok {
			continue
		}
		if err := c.Cleanup(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
