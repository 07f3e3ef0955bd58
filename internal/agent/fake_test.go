package agent

import (
	"context"
	"errors"
	"sync"
)

var errBackendDown = errors.New("backend down")

// step is one scripted backend reply.
type step struct {
	text string
	err  error
}

// scriptedCompleter replays steps in order and records every prompt. Once the
// script is exhausted the last step repeats.
type scriptedCompleter struct {
	mu      sync.Mutex
	steps   []step
	prompts []string
}

func newScripted(steps ...step) *scriptedCompleter {
	return &scriptedCompleter{steps: steps}
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := min(len(s.prompts), len(s.steps)-1)
	s.prompts = append(s.prompts, prompt)
	return s.steps[i].text, s.steps[i].err
}

func (s *scriptedCompleter) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
