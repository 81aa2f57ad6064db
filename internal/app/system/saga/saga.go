// Package saga runs multi-store writes that have no shared transaction.
//
// A saga is an ordered list of steps. Each step pairs an action with an
// optional compensation. When step N fails, the compensations of steps
// N-1..1 run in reverse order and the caller gets an *Error describing the
// failed step and any compensation that also failed.
//
//	err := saga.New("create user").
//		Step("create account", createAccount, deleteAccount).
//		Step("create document", createDoc, nil).
//		Run(ctx)
package saga

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Func is a step action or compensation.
type Func func(ctx context.Context) error

type step struct {
	name       string
	action     Func
	compensate Func
}

// Saga is built with New and Step, then executed once with Run.
type Saga struct {
	name  string
	steps []step
	log   *zap.Logger
}

// New starts an empty saga. The name appears in errors and log lines.
func New(name string) *Saga {
	return &Saga{name: name, log: zap.NewNop()}
}

// WithLogger sets the logger used to report compensations.
func (s *Saga) WithLogger(log *zap.Logger) *Saga {
	if log != nil {
		s.log = log
	}
	return s
}

// Step appends a step. compensate may be nil for steps with nothing to undo.
func (s *Saga) Step(name string, action, compensate Func) *Saga {
	s.steps = append(s.steps, step{name: name, action: action, compensate: compensate})
	return s
}

// Run executes the steps in order. Compensations run with a context that
// is not canceled by the caller, so a client disconnect cannot leave a
// half-written record behind.
func (s *Saga) Run(ctx context.Context) error {
	for i, st := range s.steps {
		if err := st.action(ctx); err != nil {
			serr := &Error{Saga: s.name, Step: st.name, Err: err}
			undoCtx := context.WithoutCancel(ctx)
			for j := i - 1; j >= 0; j-- {
				prev := s.steps[j]
				if prev.compensate == nil {
					continue
				}
				s.log.Warn("saga compensating",
					zap.String("saga", s.name),
					zap.String("step", prev.name),
					zap.String("failed_step", st.name),
					zap.Error(err))
				if cerr := prev.compensate(undoCtx); cerr != nil {
					serr.Compensation = append(serr.Compensation, StepError{Step: prev.name, Err: cerr})
				}
			}
			return serr
		}
	}
	return nil
}

// StepError is one failed compensation.
type StepError struct {
	Step string
	Err  error
}

// Error is returned by Run when a step fails.
type Error struct {
	Saga         string
	Step         string
	Err          error
	Compensation []StepError
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: step %q failed: %v", e.Saga, e.Step, e.Err)
	for _, c := range e.Compensation {
		fmt.Fprintf(&b, "; compensation %q failed: %v", c.Step, c.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// RolledBack reports whether every compensation succeeded.
func (e *Error) RolledBack() bool { return len(e.Compensation) == 0 }

// FailedStep returns the name of the failed step when err came from Run.
func FailedStep(err error) (string, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}
