package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	wg         sync.WaitGroup

	mutex  sync.RWMutex
	closed bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system is shut down")
var ErrJobQueueFull = errors.New("job queue is full")
var ErrJobNoEntryPoint = errors.New("job has no entry point")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := make(chan metadata.JobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func(worker int) {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(worker, job)
			}
		}(i)
	}
}

func (js *JobSystem) run(worker int, job metadata.JobTask) {
	defer func() {
		// a panicking decoder must not take the worker down with it
		if r := recover(); r != nil {
			err := fmt.Errorf("job panicked on worker %d: %v", worker, r)
			core.LogError("%s", err.Error())
			if job.OnFailure != nil {
				job.OnFailure(job.InputParams, err)
			}
		}
	}()

	result, err := job.OnStart(job.InputParams)
	if err != nil {
		core.LogDebug("job failed on worker %d: %s", worker, err)
		if job.OnFailure != nil {
			job.OnFailure(job.InputParams, err)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete(result)
	}
}

/**
 * @brief Shuts the job system down. Queued jobs are still run before it returns.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.closed {
		js.mutex.Unlock()
		return core.ErrAlreadyShutdown
	}
	js.closed = true
	close(js.jobQueue)
	js.mutex.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while the queue is full.
 * @param info The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) error {
	if jt.OnStart == nil {
		return ErrJobNoEntryPoint
	}
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}

// TrySubmit queues the job only if there is room for it.
func (js *JobSystem) TrySubmit(jt metadata.JobTask) error {
	if jt.OnStart == nil {
		return ErrJobNoEntryPoint
	}
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	select {
	case js.jobQueue <- jt:
		return nil
	default:
		return ErrJobQueueFull
	}
}

// Pending returns the number of queued jobs not yet picked up by a worker.
func (js *JobSystem) Pending() int {
	return len(js.jobQueue)
}
