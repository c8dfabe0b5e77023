package services

import (
	"context"
	"errors"
	"sync"

	"alfredoptarigan/resume-analyzer/internal/logger"
)

var ErrWorkerStopped = errors.New("worker pool stopped")

type Job func()

// Worker runs blocking jobs on a fixed number of goroutines.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	// Submit queues job and waits for it to finish. Once queued the job is
	// always waited for, so callers may clean up what it touches afterwards.
	Submit(ctx context.Context, job Job) error
}

type task struct {
	run  Job
	done chan struct{}
}

type worker struct {
	jobQueue    chan *task
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopped     chan struct{}
	stopOnce    sync.Once
}

func NewWorker(concurrency, queueSize int) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	return &worker{
		jobQueue:    make(chan *task, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

// Start implements Worker. Cancelling ctx has the same effect as Stop.
func (w *worker) Start(ctx context.Context) {
	logger.Info().Int("concurrency", w.concurrency).Msg("starting worker pool")

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(i + 1)
	}

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				w.Stop()
			case <-w.stopChan:
			}
		}()
	}
}

// Stop implements Worker. Running jobs finish; queued ones are rejected.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		logger.Info().Msg("stopping worker pool")
		close(w.stopChan)
		w.wg.Wait()
		close(w.stopped)
		logger.Info().Msg("worker pool stopped")
	})
}

// Submit implements Worker.
func (w *worker) Submit(ctx context.Context, job Job) error {
	t := &task{run: job, done: make(chan struct{})}

	select {
	case <-w.stopChan:
		return ErrWorkerStopped
	case <-ctx.Done():
		return ctx.Err()
	case w.jobQueue <- t:
	}

	select {
	case <-t.done:
		return nil
	case <-w.stopped:
		select {
		case <-t.done:
			return nil
		default:
			return ErrWorkerStopped
		}
	}
}

func (w *worker) processJobs(workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case t := <-w.jobQueue:
			w.run(workerID, t)
		}
	}
}

func (w *worker) run(workerID int, t *task) {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Int("worker", workerID).Interface("panic", r).Msg("job panicked")
		}
	}()

	t.run()
}
