// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package runner executes independent tasks with bounded parallelism,
// per-task timeouts, and retry. Tasks run in windows of at most
// MaxConcurrent with a fixed delay between windows so the downstream
// collaborator is never overwhelmed. One task's failure never aborts its
// siblings.
package runner

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// Config configures a Pool.
type Config struct {
	// MaxConcurrent caps the number of tasks in flight at once.
	// Default is runtime.NumCPU() / 2, with a minimum of 1.
	MaxConcurrent int

	// BatchDelay is inserted between consecutive task windows.
	BatchDelay time.Duration

	// TaskTimeout converts a hung task into a failure.
	TaskTimeout time.Duration

	// RetryAttempts is how many times a failing task is retried before
	// being recorded as failed.
	RetryAttempts int

	// RetryDelay is the base delay for exponential backoff between
	// retries.
	RetryDelay time.Duration
}

// DefaultConfig returns the default runner configuration.
func DefaultConfig() Config {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	return Config{
		MaxConcurrent: workers,
		BatchDelay:    100 * time.Millisecond,
		TaskTimeout:   30 * time.Second,
		RetryAttempts: 2,
		RetryDelay:    200 * time.Millisecond,
	}
}

// Task is a unit of work with a caller-assigned identifier.
type Task[T any] struct {
	ID      string
	Payload T
}

// TaskResult records the outcome of one task.
type TaskResult[R any] struct {
	TaskID   string
	Success  bool
	Value    R
	Err      error
	Duration time.Duration
}

// Summary aggregates per-task results.
type Summary struct {
	Successful    int
	Failed        int
	SuccessRate   float64
	AvgDuration   time.Duration
	TotalDuration time.Duration
}

// Pool wraps a bounded goroutine pool for parallel task execution.
type Pool struct {
	cfg    Config
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPool creates a Pool with the given configuration.
func NewPool(cfg Config, opts ...Option) (*Pool, error) {
	defaults := DefaultConfig()
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = defaults.MaxConcurrent
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = defaults.TaskTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.RetryAttempts < 0 {
		cfg.RetryAttempts = 0
	}

	antsPool, err := ants.NewPool(cfg.MaxConcurrent)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		cfg:    cfg,
		pool:   antsPool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Release shuts the worker pool down.
func (p *Pool) Release() {
	p.pool.Release()
}

// Config returns the effective configuration.
func (p *Pool) Config() Config {
	return p.cfg
}

// Worker processes one task payload, returning its result or an error.
type Worker[T, R any] func(ctx context.Context, payload T) (R, error)

// RunParallel executes tasks in bounded windows and returns one result per
// task, in task order. Each task gets its own timeout and retry budget; a
// failed or timed-out task is recorded in its result, never propagated to
// siblings. A cancelled context stops scheduling further windows; already
// scheduled tasks still report results.
func RunParallel[T, R any](ctx context.Context, p *Pool, tasks []Task[T], worker Worker[T, R]) []TaskResult[R] {
	results := make([]TaskResult[R], len(tasks))

	for start := 0; start < len(tasks); start += p.cfg.MaxConcurrent {
		if start > 0 && p.cfg.BatchDelay > 0 {
			timer := time.NewTimer(p.cfg.BatchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				markCancelled(ctx, tasks[start:], results[start:])
				return results
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			markCancelled(ctx, tasks[start:], results[start:])
			return results
		}

		end := min(start+p.cfg.MaxConcurrent, len(tasks))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			task := tasks[i]
			slot := &results[i]
			err := p.pool.Submit(func() {
				defer wg.Done()
				*slot = runOne(ctx, p, task, worker)
			})
			if err != nil {
				// Pool rejected the task (released or overloaded); record
				// the failure and keep going.
				wg.Done()
				*slot = TaskResult[R]{TaskID: task.ID, Err: err}
				p.logger.Warn("task submission failed", "task", task.ID, "error", err)
			}
		}
		wg.Wait()
	}

	return results
}

// runOne executes a single task with timeout and retry.
func runOne[T, R any](ctx context.Context, p *Pool, task Task[T], worker Worker[T, R]) TaskResult[R] {
	started := time.Now()

	var value R
	attempts := p.cfg.RetryAttempts + 1
	err := RetryWithBackoff(ctx, func() error {
		taskCtx, cancel := context.WithTimeout(ctx, p.cfg.TaskTimeout)
		defer cancel()

		type outcome struct {
			value R
			err   error
		}
		done := make(chan outcome, 1)
		go func() {
			v, workErr := worker(taskCtx, task.Payload)
			done <- outcome{value: v, err: workErr}
		}()

		select {
		case <-taskCtx.Done():
			return taskCtx.Err()
		case out := <-done:
			if out.err != nil {
				return out.err
			}
			value = out.value
			return nil
		}
	}, attempts, p.cfg.RetryDelay)

	result := TaskResult[R]{
		TaskID:   task.ID,
		Duration: time.Since(started),
	}
	if err != nil {
		result.Err = err
		p.logger.Debug("task failed", "task", task.ID, "error", err)
		return result
	}
	result.Success = true
	result.Value = value
	return result
}

func markCancelled[T, R any](ctx context.Context, tasks []Task[T], slots []TaskResult[R]) {
	for i := range slots {
		if slots[i].TaskID == "" && !slots[i].Success {
			slots[i] = TaskResult[R]{TaskID: tasks[i].ID, Err: ctx.Err()}
		}
	}
}

// Summarize derives aggregate statistics from per-task results.
func Summarize[R any](results []TaskResult[R]) Summary {
	var summary Summary
	for _, result := range results {
		if result.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		summary.TotalDuration += result.Duration
	}
	if len(results) > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(len(results))
		summary.AvgDuration = summary.TotalDuration / time.Duration(len(results))
	}
	return summary
}
