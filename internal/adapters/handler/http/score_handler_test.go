package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keegs-3/wellpath-adherence/internal/adapters/cache"
	adapterHTTP "github.com/keegs-3/wellpath-adherence/internal/adapters/handler/http"
	"github.com/keegs-3/wellpath-adherence/internal/adapters/handler/http/middleware"
	"github.com/keegs-3/wellpath-adherence/internal/adapters/repository"
	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/scoring"
	"github.com/keegs-3/wellpath-adherence/internal/core/services"
)

type scoreTestEnv struct {
	router          *gin.Engine
	configRepo      *repository.InMemoryConfigRepository
	measurementRepo *repository.InMemoryMeasurementRepository
	snapshots       *cache.InMemorySnapshotStore
}

func setupScoreRouter(userID string) scoreTestEnv {
	gin.SetMode(gin.TestMode)

	configRepo := repository.NewInMemoryConfigRepository()
	measurementRepo := repository.NewInMemoryMeasurementRepository()
	snapshots := cache.NewInMemorySnapshotStore()

	svc := services.NewScoreService(configRepo, measurementRepo, snapshots, nil)
	scoreHandler := adapterHTTP.NewScoreHandler(svc)
	measurementHandler := adapterHTTP.NewMeasurementHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
	})
	group := r.Group("/api/v1")
	scoreHandler.RegisterRoutes(group)
	measurementHandler.RegisterRoutes(group)

	return scoreTestEnv{
		router:          r,
		configRepo:      configRepo,
		measurementRepo: measurementRepo,
		snapshots:       snapshots,
	}
}

func TestGetScore(t *testing.T) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	t.Run("Success: 200 with a dual-progress result", func(t *testing.T) {
		env := setupScoreRouter("user-1")
		cfg := createGoalFixture(t, env.configRepo, "user-1")

		m := domain.NewMeasurement(cfg.ID, "user-1", today, 10000)
		require.NoError(t, env.measurementRepo.Create(context.Background(), m))

		req, _ := http.NewRequest("GET", "/api/v1/scores/"+cfg.ID, nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var score services.GoalScore
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &score))
		assert.Equal(t, cfg.ID, score.GoalID)
		assert.Equal(t, "proportional", score.Algorithm)
		assert.Equal(t, 7, score.TotalDays)
		// One perfect day out of seven.
		assert.InDelta(t, 14.29, score.Result.ProgressTowardsGoal, 0.01)
	})

	t.Run("Fail: 400 on a malformed end_date", func(t *testing.T) {
		env := setupScoreRouter("user-1")
		cfg := createGoalFixture(t, env.configRepo, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/scores/"+cfg.ID+"?end_date=yesterday", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 404 on unknown goal", func(t *testing.T) {
		env := setupScoreRouter("user-1")

		req, _ := http.NewRequest("GET", "/api/v1/scores/missing", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 403 on another user's goal", func(t *testing.T) {
		env := setupScoreRouter("intruder")
		cfg := createGoalFixture(t, env.configRepo, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/scores/"+cfg.ID, nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetProgressiveScores(t *testing.T) {
	env := setupScoreRouter("user-1")
	cfg := createGoalFixture(t, env.configRepo, "user-1")

	req, _ := http.NewRequest("GET", "/api/v1/scores/"+cfg.ID+"/progressive", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		GoalID string    `json:"goal_id"`
		Scores []float64 `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, cfg.ID, resp.GoalID)
	assert.Len(t, resp.Scores, 7)
}

func TestGetSnapshot(t *testing.T) {
	t.Run("Success: cached snapshot is served as-is", func(t *testing.T) {
		env := setupScoreRouter("user-1")
		cfg := createGoalFixture(t, env.configRepo, "user-1")

		cached := domain.ScoreResult{ProgressTowardsGoal: 55, MaxPotentialAdherence: 80}
		require.NoError(t, env.snapshots.SaveSnapshot(context.Background(), "user-1", cfg.ID, cached))

		req, _ := http.NewRequest("GET", "/api/v1/scores/"+cfg.ID+"/snapshot", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var result domain.ScoreResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.InDelta(t, 55.0, result.ProgressTowardsGoal, 0.01)
	})

	t.Run("Success: empty cache falls back to a fresh score", func(t *testing.T) {
		env := setupScoreRouter("user-1")
		cfg := createGoalFixture(t, env.configRepo, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/scores/"+cfg.ID+"/snapshot", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPreviewScore(t *testing.T) {
	t.Run("Success: 200 without touching storage", func(t *testing.T) {
		env := setupScoreRouter("user-1")

		body := `{
			"document": {"algorithm_type": "binary_threshold", "threshold": 45, "comparison_operator": ">="},
			"days": [
				{"value": 50, "recorded": true},
				{"value": 30, "recorded": true},
				{"value": 60, "recorded": true}
			],
			"current_day": 3
		}`

		req, _ := http.NewRequest("POST", "/api/v1/scores/preview", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var result domain.ScoreResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		// Two qualifying days out of seven.
		assert.InDelta(t, 28.57, result.ProgressTowardsGoal, 0.01)
		assert.InDelta(t, 100.0, result.MaxPotentialAdherence, 0.01)
	})

	t.Run("Fail: 400 on an invalid document", func(t *testing.T) {
		env := setupScoreRouter("user-1")

		body := `{"document": {"algorithm_type": "binary_threshold"}}`

		req, _ := http.NewRequest("POST", "/api/v1/scores/preview", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListAlgorithms(t *testing.T) {
	env := setupScoreRouter("user-1")

	req, _ := http.NewRequest("GET", "/api/v1/algorithms", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Algorithms []scoring.AlgorithmInfo `json:"algorithms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Algorithms, 14)
}

func TestCreateMeasurement(t *testing.T) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	t.Run("Success: 201 Created", func(t *testing.T) {
		env := setupScoreRouter("user-1")
		cfg := createGoalFixture(t, env.configRepo, "user-1")

		payload := map[string]interface{}{
			"goal_id":     cfg.ID,
			"measured_on": today.Format(time.RFC3339),
			"value":       8000,
			"metrics":     map[string]float64{"steps": 8000},
			"statuses":    []string{"taken"},
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", "/api/v1/measurements", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var created domain.Measurement
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, 8000.0, created.Value)
	})

	t.Run("Fail: 400 on missing goal_id", func(t *testing.T) {
		env := setupScoreRouter("user-1")

		body := `{"measured_on": "2026-08-30T00:00:00Z", "value": 1}`

		req, _ := http.NewRequest("POST", "/api/v1/measurements", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 403 recording against another user's goal", func(t *testing.T) {
		env := setupScoreRouter("intruder")
		cfg := createGoalFixture(t, env.configRepo, "user-1")

		payload := map[string]interface{}{
			"goal_id":     cfg.ID,
			"measured_on": today.Format(time.RFC3339),
			"value":       1,
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", "/api/v1/measurements", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestListMeasurements(t *testing.T) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	t.Run("Success: 200 with the goal's recent data", func(t *testing.T) {
		env := setupScoreRouter("user-1")
		cfg := createGoalFixture(t, env.configRepo, "user-1")

		require.NoError(t, env.measurementRepo.Create(context.Background(),
			domain.NewMeasurement(cfg.ID, "user-1", today.AddDate(0, 0, -2), 7000)))
		require.NoError(t, env.measurementRepo.Create(context.Background(),
			domain.NewMeasurement(cfg.ID, "user-1", today.AddDate(0, 0, -60), 1)))

		req, _ := http.NewRequest("GET", "/api/v1/measurements?goal_id="+cfg.ID, nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var list []domain.Measurement
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		// The 60-day-old entry falls outside the default 30-day range.
		assert.Len(t, list, 1)
	})

	t.Run("Fail: 400 without a goal_id", func(t *testing.T) {
		env := setupScoreRouter("user-1")

		req, _ := http.NewRequest("GET", "/api/v1/measurements", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
