// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are built on github.com/robfig/cron/v3 with the six-field format (seconds first).
//
// # Available Jobs
//
// BacklogMonitorJob checks the group queues on a schedule. It logs every non-empty
// queue, warns when a queue has no logged-in staff, and warns about each work unit that
// has waited longer than the stale threshold. A unit whose group is never staffed stays
// queued, so these warnings are the only signal an operator gets about it.
//
// # Usage
//
//	monitor := jobs.NewBacklogMonitorJob(engine, "*/30 * * * * *", 10*time.Minute, logger)
//	jobManager := jobs.NewJobManager(monitor)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
