package workers_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConfigRepo struct {
	configs map[string]*domain.GoalConfig
}

func (s *stubConfigRepo) GetByID(ctx context.Context, id string) (*domain.GoalConfig, error) {
	cfg, ok := s.configs[id]
	if !ok {
		return nil, domain.ErrConfigNotFound
	}
	return cfg, nil
}

type stubMeasurementRepo struct {
	measurements []*domain.Measurement
}

func (s *stubMeasurementRepo) ListByGoalIDAndDateRange(ctx context.Context, goalID string, from, to time.Time) ([]*domain.Measurement, error) {
	var list []*domain.Measurement
	for _, m := range s.measurements {
		if m.GoalID == goalID && !m.MeasuredOn.Before(from) && m.MeasuredOn.Before(to) {
			list = append(list, m)
		}
	}
	return list, nil
}

type recordingSnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]domain.ScoreResult
}

func newRecordingSnapshotStore() *recordingSnapshotStore {
	return &recordingSnapshotStore{snapshots: make(map[string]domain.ScoreResult)}
}

func (s *recordingSnapshotStore) SaveSnapshot(ctx context.Context, userID, goalID string, result domain.ScoreResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[userID+":"+goalID] = result
	return nil
}

func (s *recordingSnapshotStore) GetSnapshot(ctx context.Context, userID, goalID string) (*domain.ScoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.snapshots[userID+":"+goalID]
	if !ok {
		return nil, nil
	}
	return &result, nil
}

func TestScoreWorker(t *testing.T) {
	target := 10000.0
	doc := domain.ConfigDocument{
		AlgorithmType: "proportional",
		Target:        &target,
		Unit:          "steps",
	}

	t.Run("Success: enqueued job refreshes the snapshot", func(t *testing.T) {
		cfg, err := domain.NewGoalConfig("user-1", "Daily steps", doc)
		require.NoError(t, err)

		today := time.Now().UTC().Truncate(24 * time.Hour)
		configRepo := &stubConfigRepo{configs: map[string]*domain.GoalConfig{cfg.ID: cfg}}
		measurementRepo := &stubMeasurementRepo{measurements: []*domain.Measurement{
			domain.NewMeasurement(cfg.ID, "user-1", today.AddDate(0, 0, -1), 10000),
		}}
		snapshots := newRecordingSnapshotStore()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		worker := workers.NewScoreWorker(configRepo, measurementRepo, snapshots)
		worker.Start(ctx)
		worker.Enqueue("user-1", cfg.ID)

		assert.Eventually(t, func() bool {
			snap, err := snapshots.GetSnapshot(context.Background(), "user-1", cfg.ID)
			return err == nil && snap != nil
		}, 2*time.Second, 10*time.Millisecond)

		snap, err := snapshots.GetSnapshot(context.Background(), "user-1", cfg.ID)
		require.NoError(t, err)
		require.NotNil(t, snap)
		// One full day out of seven.
		assert.InDelta(t, 14.29, snap.ProgressTowardsGoal, 0.01)
	})

	t.Run("A job for a missing goal is logged and skipped", func(t *testing.T) {
		snapshots := newRecordingSnapshotStore()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		worker := workers.NewScoreWorker(
			&stubConfigRepo{configs: map[string]*domain.GoalConfig{}},
			&stubMeasurementRepo{},
			snapshots,
		)
		worker.Start(ctx)
		worker.Enqueue("user-1", "missing-goal")

		// Give the worker a moment; no snapshot should ever appear.
		time.Sleep(100 * time.Millisecond)
		snap, err := snapshots.GetSnapshot(context.Background(), "user-1", "missing-goal")
		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("Enqueue never blocks when the worker is not running", func(t *testing.T) {
		worker := workers.NewScoreWorker(
			&stubConfigRepo{configs: map[string]*domain.GoalConfig{}},
			&stubMeasurementRepo{},
			newRecordingSnapshotStore(),
		)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 200; i++ {
				worker.Enqueue("user-1", "goal-1")
			}
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Enqueue blocked on a full queue")
		}
	})
}
