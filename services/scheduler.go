// services/scheduler.go
package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSweepScheduler runs the episode sweep on a fixed cadence (weekly by
// default, SWEEP_INTERVAL_HOURS to override). Every run logs the per-episode
// audit list — that log IS the operator trail, so it never gets swallowed.
func (s *ScoreService) StartSweepScheduler() {
	interval := 168 * time.Hour // weekly
	if v := os.Getenv("SWEEP_INTERVAL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Hour
		}
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			results, err := s.ReconcilePending()
			if err != nil {
				log.Printf("[Sweep] Failed to list pending episodes: %v", err)
				return
			}
			if len(results) == 0 {
				log.Println("[Sweep] No pending episodes")
				return
			}
			for _, r := range results {
				if r.OK {
					log.Printf("[Sweep] ✅ Episode %d scored", r.EpisodeNumber)
				} else {
					log.Printf("[Sweep] ❌ Episode %d failed: %s", r.EpisodeNumber, r.Error)
				}
			}
		}),
	)

	log.Printf("✅ Sweep scheduler running (every %s)", interval)
}
