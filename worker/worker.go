package worker

import (
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/mover/oerror"
)

var workerQueue = make(chan job, runtime.NumCPU())

type job struct {
	f    func()
	done chan error
}

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for j := range workerQueue {
		j.done <- run(j.f)
		close(j.done)
	}
}

// run calls f, turning a panic into an error and reporting it to sentry so a single bad tick
// does not take the worker down with it.
func run(f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		hub := sentry.CurrentHub().Clone()
		hub.Recover(r)
		hub.Flush(time.Second * 5)
		err = oerror.New("worker: %v", r)
	}()
	f()
	return nil
}

// Submit queues f to be ran by a worker. To be used by a function that may be CPU intensive. The
// returned channel receives the outcome of f once it has returned.
func Submit(f func()) <-chan error {
	done := make(chan error, 1)
	workerQueue <- job{f: f, done: done}
	return done
}

// Wait submits every function and blocks until all of them have returned, returning the first
// error encountered.
func Wait(fs ...func()) error {
	results := make([]<-chan error, len(fs))
	for i, f := range fs {
		results[i] = Submit(f)
	}
	var first error
	for _, res := range results {
		if err := <-res; err != nil && first == nil {
			first = err
		}
	}
	return first
}
