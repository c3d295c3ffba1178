package maintenance

import (
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Runner periodically performs database upkeep: WAL checkpointing, ANALYZE
// and a row-count report. Fires on a standard cron expression.
type Runner struct {
	db       *sql.DB
	schedule cron.Schedule
	done     chan bool
}

// New creates a Runner from a standard cron expression (e.g. "@hourly").
func New(db *sql.DB, spec string) (*Runner, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Runner{
		db:       db,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the maintenance loop. It blocks until Stop is called.
func (r *Runner) Run() {
	log.Info().Msg("Starting background maintenance runner...")
	for {
		timer := time.NewTimer(time.Until(r.schedule.Next(time.Now())))
		select {
		case <-r.done:
			timer.Stop()
			log.Info().Msg("Stopping background maintenance runner.")
			return
		case <-timer.C:
			r.runOnce()
		}
	}
}

// Stop halts the runner.
func (r *Runner) Stop() {
	r.done <- true
}

func (r *Runner) runOnce() {
	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		log.Error().Err(err).Msg("Maintenance: WAL checkpoint failed")
	}
	if _, err := r.db.Exec("ANALYZE"); err != nil {
		log.Error().Err(err).Msg("Maintenance: ANALYZE failed")
	}

	var users, wishes int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to count users")
		return
	}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM wishes").Scan(&wishes); err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to count wishes")
		return
	}
	log.Info().Int("users", users).Int("wishes", wishes).Msg("Maintenance pass complete")
}
