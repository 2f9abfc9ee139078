package arbiter

import "time"

type task struct {
	f  func()
	t0 time.Time
}

func newTask() *task {
	return &task{
		f:  nil,
		t0: time.Time{},
	}
}

// scheduler goroutine
func (t *task) reset() {
	t.f = nil
	t.t0 = time.Time{}
}
