// Package session holds the display state of one audit: idle, loading,
// success or error. A Session accepts a new submission only while idle and
// is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/kevinmichaelchen/repo-audit/internal/pipeline"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

var (
	ErrBusy       = errors.New("an audit is already in progress")
	ErrEmptyInput = errors.New("repository URL is empty")
)

// Runner is the audit pipeline as seen by the session.
type Runner interface {
	Run(ctx context.Context, rawURL string, progress func(step string)) (pipeline.Outcome, error)
}

type Session struct {
	runner Runner
	logger *zap.Logger
	onStep func(step string)

	state   State
	step    string
	err     error
	outcome *pipeline.Outcome
}

type Option func(*Session)

// WithStepListener registers fn to be called with each loading step text.
func WithStepListener(fn func(step string)) Option {
	return func(s *Session) { s.onStep = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(runner Runner, opts ...Option) *Session {
	s := &Session{runner: runner, logger: zap.NewNop(), state: StateIdle}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs one audit to completion. The returned error is the pipeline
// failure, if any; the session keeps it and its user-facing message until Reset.
func (s *Session) Submit(ctx context.Context, rawURL string) error {
	if s.state != StateIdle {
		return ErrBusy
	}
	if strings.TrimSpace(rawURL) == "" {
		return ErrEmptyInput
	}

	s.transition(StateLoading)
	outcome, err := s.runner.Run(ctx, rawURL, s.setStep)
	s.step = ""
	if err != nil {
		s.err = err
		s.logger.Info("audit failed", zap.String("url", rawURL), zap.Error(err))
		s.transition(StateError)
		return err
	}

	s.outcome = &outcome
	s.transition(StateSuccess)
	return nil
}

// Reset returns a finished session to idle and drops everything it held.
func (s *Session) Reset() error {
	switch s.state {
	case StateLoading:
		return ErrBusy
	case StateIdle:
		return nil
	}
	s.err = nil
	s.outcome = nil
	s.step = ""
	s.transition(StateIdle)
	return nil
}

func (s *Session) State() State { return s.state }

// Step is the current loading step text; empty outside StateLoading.
func (s *Session) Step() string { return s.step }

func (s *Session) Err() error { return s.err }

// Message is the user-facing text for the current error, or "".
func (s *Session) Message() string {
	if s.err == nil {
		return ""
	}
	return Message(s.err)
}

// Outcome returns the summary and audit pair; ok is false unless StateSuccess.
func (s *Session) Outcome() (pipeline.Outcome, bool) {
	if s.outcome == nil {
		return pipeline.Outcome{}, false
	}
	return *s.outcome, true
}

func (s *Session) setStep(step string) {
	s.step = step
	if s.onStep != nil {
		s.onStep(step)
	}
}

func (s *Session) transition(to State) {
	s.logger.Info("session transition", zap.String("from", string(s.state)), zap.String("to", string(to)))
	s.state = to
}
