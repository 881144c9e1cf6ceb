package gamepads

import (
	"sync"
	"time"
)

const eventually = 2 * time.Second

type pollResult struct {
	err error
	e   Event
	ok  bool
}

// scriptedSource replays a fixed sequence of poll results, then reports no
// event forever.
type scriptedSource struct {
	results []pollResult
	mu      sync.Mutex
	polls   int
}

func newScriptedSource(events ...Event) *scriptedSource {
	s := &scriptedSource{}
	for _, e := range events {
		s.results = append(s.results, pollResult{e: e, ok: true})
	}
	return s
}

func (s *scriptedSource) then(r ...pollResult) *scriptedSource {
	s.results = append(s.results, r...)
	return s
}

func (s *scriptedSource) Poll() (Event, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	if len(s.results) == 0 {
		return Event{}, false, nil
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.e, r.ok, r.err
}

func (s *scriptedSource) remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func nothing() pollResult { return pollResult{} }

func failure(err error) pollResult { return pollResult{err: err} }
