// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartDraftJanitor sweeps expired drafts out of the in-memory staging
// store on a fixed interval. Redis-backed staging expires natively and
// does not need this.
func StartDraftJanitor(store *MemoryDraftStore) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if removed := store.Sweep(time.Now()); removed > 0 {
				log.Printf("[DRAFTS] janitor expired %d stale draft(s)", removed)
			}
		}),
	)
}
