package llm

import (
	"sync"
	"testing"
)

func TestUsage_Add(t *testing.T) {
	u := NewUsage()

	u.Add(100, 50)
	u.Add(200, 75)

	input, output := u.Total()
	if input != 300 {
		t.Errorf("Total() input = %d, want 300", input)
	}
	if output != 125 {
		t.Errorf("Total() output = %d, want 125", output)
	}
	if u.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", u.Calls())
	}
}

func TestUsage_Reset(t *testing.T) {
	u := NewUsage()
	u.Add(100, 50)
	u.Reset()

	input, output := u.Total()
	if input != 0 || output != 0 {
		t.Errorf("Total() after Reset = (%d, %d), want (0, 0)", input, output)
	}
	if u.Calls() != 0 {
		t.Errorf("Calls() after Reset = %d, want 0", u.Calls())
	}
}

func TestUsage_ConcurrentAdd(t *testing.T) {
	u := NewUsage()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.Add(10, 5)
		}()
	}
	wg.Wait()

	input, output := u.Total()
	if input != 200 || output != 100 {
		t.Errorf("Total() = (%d, %d), want (200, 100)", input, output)
	}
	if u.Calls() != 20 {
		t.Errorf("Calls() = %d, want 20", u.Calls())
	}
}
