package arbiter

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Meander-Cloud/go-schedule/scheduler"

	"github.com/onizworks/go-oniz/config"
)

// Arbiter serializes embedder callbacks and deferred work on a single
// scheduler goroutine, keeping them off the connection reader.
type Arbiter struct {
	c      *config.Config
	s      *scheduler.Scheduler[Group]
	taskpl sync.Pool
	taskch chan *task
}

func NewArbiter(c *config.Config) *Arbiter {
	var eventChannelLength uint16
	if c.EventChannelLength == 0 {
		eventChannelLength = config.EventChannelLength
	} else {
		eventChannelLength = c.EventChannelLength
	}

	a := &Arbiter{
		c: c,
		s: scheduler.NewScheduler[Group](
			&scheduler.Options{
				LogPrefix: "Arbiter",
				LogDebug:  c.LogDebug,
			},
		),
		taskpl: sync.Pool{
			New: func() any {
				return newTask()
			},
		},
		taskch: make(chan *task, eventChannelLength),
	}

	// add taskch
	a.s.ProcessAsync(
		&scheduler.ScheduleAsyncEvent[Group]{
			AsyncVariant: scheduler.NewAsyncVariant(
				false,
				nil,
				a.taskch,
				func(_ *scheduler.Scheduler[Group], _ *scheduler.AsyncVariant[Group], recv interface{}) {
					a.handle(recv)
				},
				func(_ *scheduler.Scheduler[Group], v *scheduler.AsyncVariant[Group]) {
					log.Printf("%s: taskch released, select count: %d", c.LogPrefix, v.SelectCount)
				},
			),
		},
	)

	// ownership of internal state is transferred to scheduler goroutine
	a.s.RunAsync()

	return a
}

func (a *Arbiter) Shutdown() {
	a.s.Shutdown() // wait
}

func (a *Arbiter) Scheduler() *scheduler.Scheduler[Group] {
	return a.s
}

func (a *Arbiter) getTask() *task {
	tAny := a.taskpl.Get()
	t, ok := tAny.(*task)
	if !ok {
		err := fmt.Errorf("%s: failed to cast task, tAny=%#v", a.c.LogPrefix, tAny)
		log.Printf("%s", err.Error())
		panic(err)
	}
	return t
}

func (a *Arbiter) returnTask(t *task) {
	// recycle task
	t.reset()
	a.taskpl.Put(t)
}

// scheduler goroutine
func (a *Arbiter) handle(recv interface{}) {
	t, ok := recv.(*task)
	if !ok {
		log.Printf("%s: failed to cast task, recv=%#v", a.c.LogPrefix, recv)
		return
	}
	defer a.returnTask(t)

	t1 := time.Now().UTC()

	func() {
		defer func() {
			rec := recover()
			if rec != nil {
				log.Printf(
					"%s: functor recovered from panic: %+v",
					a.c.LogPrefix,
					rec,
				)
			}
		}()
		t.f()
	}()

	if a.c.LogDebug {
		t2 := time.Now().UTC()
		log.Printf(
			"%s: task queueWait=%dus, funcElapsed=%dus",
			a.c.LogPrefix,
			t1.Sub(t.t0).Microseconds(),
			t2.Sub(t1).Microseconds(),
		)
	}
}

// any goroutine
func (a *Arbiter) Dispatch(f func()) error {
	t := a.getTask()
	t.f = f
	t.t0 = time.Now().UTC()

	select {
	case a.taskch <- t:
	default:
		err := fmt.Errorf("%s: failed to push to taskch", a.c.LogPrefix)
		log.Printf("%s", err.Error())

		a.returnTask(t)
		return err
	}

	return nil
}
