package usecase

import (
	"context"

	"go.uber.org/zap"
)

// Sequence runs advisory side effects in order, after the authoritative
// write has landed. A failed step is collected and the next step still runs.
// There are no compensations: nothing is rolled back.
type Sequence struct {
	steps  []Step
	logger *zap.Logger
}

type Step struct {
	Name string
	Kind FailureKind
	Fn   func(context.Context) error
}

func NewSequence(logger *zap.Logger) *Sequence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequence{logger: logger}
}

func (s *Sequence) AddStep(name string, kind FailureKind, fn func(context.Context) error) {
	s.steps = append(s.steps, Step{Name: name, Kind: kind, Fn: fn})
}

// Run awaits each step in turn and returns the failures, empty on success.
func (s *Sequence) Run(ctx context.Context, fields ...zap.Field) []SubFailure {
	failures := []SubFailure{}
	for _, step := range s.steps {
		if err := step.Fn(ctx); err != nil {
			s.logger.Warn("advisory step failed",
				append(fields, zap.String("step", step.Name), zap.String("kind", string(step.Kind)), zap.Error(err))...)
			failures = append(failures, SubFailure{Kind: step.Kind, Err: err})
		}
	}
	return failures
}
