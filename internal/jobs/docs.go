// Package jobs provides scheduled background tasks for the fulfillment
// service.
//
// The single job here is the transition resume job: it periodically scans the
// step ledger for IN_PROGRESS records older than a cutoff whose stage never
// reached DONE, and re-drives the transition through the regular command
// handler. Because transitions are idempotent, re-driving one that completed
// in the meantime is harmless.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(resumeJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
