package internal

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rm-hull/image-enhancer/internal/session"
	"github.com/rs/zerolog/log"
)

// NewScheduler starts a job that evicts sessions idle for longer than ttl
// once a minute.
func NewScheduler(store *session.Store, ttl time.Duration) (gocron.Scheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(evictSessions, store, ttl),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	log.Info().Dur("ttl", ttl).Msg("Starting session eviction job")
	scheduler.Start()
	return scheduler, nil
}

func evictSessions(store *session.Store, ttl time.Duration) int {
	n := store.Evict(ttl)
	if n > 0 {
		log.Info().Int("evicted", n).Int("remaining", store.Len()).Msg("Evicted idle sessions")
	}
	return n
}
