package llm

import "sync"

// Usage tracks token consumption across API calls for a session.
type Usage struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	calls     int
}

// NewUsage creates an empty usage tracker.
func NewUsage() *Usage {
	return &Usage{}
}

// Add records token usage from an API call.
func (u *Usage) Add(input, output int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inputTok += input
	u.outputTok += output
	u.calls++
}

// Total returns the total input and output tokens tracked.
func (u *Usage) Total() (input, output int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.inputTok, u.outputTok
}

// Calls returns the number of API calls made.
func (u *Usage) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

// Reset clears all tracked usage.
func (u *Usage) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inputTok = 0
	u.outputTok = 0
	u.calls = 0
}
