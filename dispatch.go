package web2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
)

// taskConverter runs one conversion task. *Worker implements it.
type taskConverter interface {
	Convert(ctx context.Context, task ConversionTask) ConversionResult
}

var _ taskConverter = (*Worker)(nil)

// Dispatcher starts every task of a batch at once, one goroutine each.
type Dispatcher struct {
	converter taskConverter
	logger    *slog.Logger
}

func newDispatcher(converter taskConverter, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{converter: converter, logger: logger}
}

// Batch is a dispatched set of tasks and the log their results land in.
type Batch struct {
	tasks []ConversionTask
	log   *ResultLog
}

// Tasks returns the dispatched tasks in input order.
func (b *Batch) Tasks() []ConversionTask { return b.tasks }

// Log returns the batch's result log.
func (b *Batch) Log() *ResultLog { return b.log }

// Wait is the completion barrier: it returns once every task has a
// result, whatever the completion order, with results in input order.
// If ctx ends first the results gathered so far are returned with ctx.Err().
func (b *Batch) Wait(ctx context.Context) ([]ConversionResult, error) {
	if err := b.log.WaitFor(ctx, len(b.tasks)); err != nil {
		return b.log.Ordered(), err
	}
	return b.log.Ordered(), nil
}

// Dispatch converts urls concurrently and returns immediately.
// Blank URLs are dropped before indices are assigned.
func (d *Dispatcher) Dispatch(ctx context.Context, urls []string) *Batch {
	return d.DispatchTasks(ctx, NewTasks(urls))
}

// DispatchTasks is Dispatch for prepared tasks.
func (d *Dispatcher) DispatchTasks(ctx context.Context, tasks []ConversionTask) *Batch {
	b := &Batch{tasks: tasks, log: NewResultLog()}

	results := make(chan ConversionResult, len(tasks))
	for _, task := range tasks {
		go func() {
			results <- d.run(ctx, task)
		}()
	}
	go d.aggregate(results, len(tasks), b.log)

	return b
}

// run executes one task; a panic becomes a failure result.
func (d *Dispatcher) run(ctx context.Context, task ConversionTask) (result ConversionResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("worker panic", "url", task.URL, "panic", r, "stack", string(debug.Stack()))
			result = ConversionResult{
				Index: task.Index,
				URL:   task.URL,
				Err:   fmt.Errorf("%w: %v", ErrWorkerPanic, r),
			}
		}
	}()
	return d.converter.Convert(ctx, task)
}

// aggregate is the only writer of log.
func (d *Dispatcher) aggregate(results <-chan ConversionResult, n int, log *ResultLog) {
	for range n {
		r := <-results
		if r.Succeeded() {
			d.logger.Info("generated", "file", filepath.Base(r.OutputPath), "url", r.URL, "duration", r.Duration)
		} else {
			d.logger.Error("conversion failed", "url", r.URL, "error", r.Err)
		}
		log.Append(r)
	}
}
