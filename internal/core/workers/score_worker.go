package workers

import (
	"context"
	"log"
	"time"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/scoring"
)

type ConfigRepository interface {
	GetByID(ctx context.Context, id string) (*domain.GoalConfig, error)
}

type MeasurementRepository interface {
	ListByGoalIDAndDateRange(ctx context.Context, goalID string, from, to time.Time) ([]*domain.Measurement, error)
}

type ScoreJob struct {
	UserID string
	GoalID string
}

// ScoreWorker recomputes adherence snapshots in the background so reads stay
// cheap. Jobs fan out over independent (user, goal) pairs; the engine itself
// is pure, so no locking is needed.
type ScoreWorker struct {
	configRepo      ConfigRepository
	measurementRepo MeasurementRepository
	snapshots       domain.SnapshotStore
	jobs            chan ScoreJob
}

func NewScoreWorker(cRepo ConfigRepository, mRepo MeasurementRepository, snapshots domain.SnapshotStore) *ScoreWorker {
	return &ScoreWorker{
		configRepo:      cRepo,
		measurementRepo: mRepo,
		snapshots:       snapshots,
		jobs:            make(chan ScoreJob, 100),
	}
}

func (w *ScoreWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Score Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Score Worker shutting down...")
				return
			}
		}
	}()
}

func (w *ScoreWorker) Enqueue(userID, goalID string) {
	select {
	case w.jobs <- ScoreJob{UserID: userID, GoalID: goalID}:
	default:
		log.Printf("Score Worker queue full! Dropping job for goal %s", goalID)
	}
}

func (w *ScoreWorker) processJob(ctx context.Context, job ScoreJob) {
	cfg, err := w.configRepo.GetByID(ctx, job.GoalID)
	if err != nil {
		log.Printf("Worker Error fetching config %s: %v", job.GoalID, err)
		return
	}

	calc, err := scoring.NewCalculator(cfg.Document)
	if err != nil {
		log.Printf("Worker Error building calculator for %s: %v", job.GoalID, err)
		return
	}

	totalDays := cfg.Document.Days()
	now := time.Now().UTC()
	from := now.Truncate(24 * time.Hour).AddDate(0, 0, -(totalDays - 1))

	measurements, err := w.measurementRepo.ListByGoalIDAndDateRange(ctx, job.GoalID, from, now)
	if err != nil {
		log.Printf("Worker Error fetching measurements for %s: %v", job.GoalID, err)
		return
	}

	window := domain.BuildDailyWindow(measurements, from, totalDays)
	result := calc.CalculateDualProgress(window, domain.ElapsedDays(from, now, totalDays))

	if err := w.snapshots.SaveSnapshot(ctx, job.UserID, job.GoalID, result); err != nil {
		log.Printf("Worker Failed to save snapshot for %s: %v", job.GoalID, err)
		return
	}

	log.Printf("Snapshot updated for %s: progress=%.1f potential=%.1f",
		cfg.Name, result.ProgressTowardsGoal, result.MaxPotentialAdherence)
}
