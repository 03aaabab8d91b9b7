package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Rescanner runs a full regeneration on a fixed interval. File systems such
// as NFS do not deliver change events, so watch mode can fall back on it.
type Rescanner struct {
	scheduler gocron.Scheduler
}

// NewRescanner schedules task every interval. The first run happens one
// interval after Start.
func NewRescanner(interval time.Duration, task func()) (*Rescanner, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("rescan interval must be positive, got %s", interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("rescan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create rescan job: %w", err)
	}
	return &Rescanner{scheduler: s}, nil
}

func (r *Rescanner) Start() {
	slog.Info("Starting periodic rescan")
	r.scheduler.Start()
}

// Stop waits for a running rescan to finish.
func (r *Rescanner) Stop() error {
	return r.scheduler.Shutdown()
}
