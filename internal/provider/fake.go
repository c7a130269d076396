package provider

import (
	"context"
	"fmt"
	"sync"
)

// Reply is one scripted outcome for Fake.
type Reply struct {
	Text string
	Err  error
}

// Fake replays scripted replies in call order and records every request.
// Calls beyond the script fail.
type Fake struct {
	mu       sync.Mutex
	script   []Reply
	requests []Request
}

func NewFake(script ...Reply) *Fake {
	return &Fake{script: script}
}

func (f *Fake) Name() string { return "fake" }
func (f *Fake) Close() error { return nil }

func (f *Fake) Generate(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.requests)
	f.requests = append(f.requests, req)
	if n >= len(f.script) {
		return "", fmt.Errorf("fake provider: unexpected call #%d", n+1)
	}
	r := f.script[n]
	return r.Text, r.Err
}

// Calls returns the number of Generate calls so far.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns a copy of the recorded requests.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}
