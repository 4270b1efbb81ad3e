package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  Job
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs []namedJob
}

// NewJobManager creates a new job manager with the backlog monitor.
func NewJobManager(backlogMonitor *BacklogMonitorJob) *JobManager {
	jm := &JobManager{}
	jm.Add("backlog monitor", backlogMonitor)
	return jm
}

// Add registers another job. Jobs start in the order they were added.
func (jm *JobManager) Add(name string, job Job) {
	jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
}

// StartAll starts all scheduled jobs.
// If one fails to start, the jobs already started are stopped again.
func (jm *JobManager) StartAll() error {
	for i, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				jm.jobs[j].job.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully, in reverse start order.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].job.Stop()
	}
}
