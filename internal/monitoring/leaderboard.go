package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/cadenr/youface-be/internal/services"
	"github.com/cadenr/youface-be/internal/websocket"
)

// LeaderboardRefresher periodically recomputes the clout ranking and
// pushes it to connected websocket clients.
type LeaderboardRefresher struct {
	scoreSvc services.ScoreServiceProvider
	hub      *websocket.Hub
	schedule cron.Schedule
	done     chan bool
}

// NewLeaderboardRefresher creates a refresher. spec is a cron expression
// (standard five-field or @every form).
func NewLeaderboardRefresher(scoreSvc services.ScoreServiceProvider, hub *websocket.Hub, spec string) (*LeaderboardRefresher, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &LeaderboardRefresher{
		scoreSvc: scoreSvc,
		hub:      hub,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the refresh loop. Call Stop to halt it.
func (r *LeaderboardRefresher) Run() {
	log.Info().Msg("Starting leaderboard refresher")

	// Publish once immediately on start.
	r.refresh()

	for {
		next := r.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-r.done:
			timer.Stop()
			log.Info().Msg("Stopping leaderboard refresher")
			return
		case <-timer.C:
			r.refresh()
		}
	}
}

// Stop halts the refresher.
func (r *LeaderboardRefresher) Stop() {
	r.done <- true
}

func (r *LeaderboardRefresher) refresh() {
	ranking, err := r.scoreSvc.Leaderboard()
	if err != nil {
		log.Error().Err(err).Msg("Leaderboard refresh failed")
		return
	}
	r.hub.Broadcast <- websocket.NewMessage("leaderboard_update", ranking)
}
