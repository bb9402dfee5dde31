package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	taskQueueSize = 300
	taskTimeout   = 5 * time.Minute
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Job is one source to ingest every Interval.
type Job struct {
	Ingester Ingester
	Interval time.Duration
}

type Scheduler struct {
	jobs        []Job
	interval    time.Duration
	workerCount int
	now         func() time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface

	mu      sync.Mutex
	lastRun map[string]time.Time
}

func NewScheduler(jobs []Job, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if workerCount <= 0 {
		workerCount = 1
	}

	return &Scheduler{
		jobs:        jobs,
		interval:    interval,
		workerCount: workerCount,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, taskQueueSize),
		lastRun:     make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	if len(s.jobs) == 0 {
		slog.Debug("No sources configured")
		return
	}

	slog.Debug("Scheduling startup ingestion", "count", len(s.jobs))

	for _, job := range s.jobs {
		s.enqueueJob(job)
	}
}

func (s *Scheduler) enqueueTasks() {
	for _, job := range s.jobs {
		if !s.isDue(job) {
			slog.Debug("Source not due for refresh yet", "source", job.Ingester.SourceName())
			continue
		}
		s.enqueueJob(job)
	}
}

func (s *Scheduler) enqueueJob(job Job) {
	name := job.Ingester.SourceName()
	if err := s.EnqueueTask(NewIngestTask(job.Ingester)); err != nil {
		slog.Warn("Failed to enqueue IngestTask", "source", name, "error", err)
		return
	}

	s.mu.Lock()
	s.lastRun[name] = s.now()
	s.mu.Unlock()
}

func (s *Scheduler) isDue(job Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.lastRun[job.Ingester.SourceName()]
	if !ok {
		return true
	}
	return s.now().Sub(last) >= job.Interval
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)
		case <-s.ctx.Done():
			return
		}
	}
}

// executeTask runs a task once. Failures are logged and left to the next tick.
func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed",
			"worker_id", workerID,
			"type", string(task.GetType()),
			"id", task.GetID(),
			"source", task.GetSourceName(),
			"duration", task.GetDuration(),
			"error", err)
	}
}
