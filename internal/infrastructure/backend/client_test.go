package backend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/progress"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	return logger
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, "test-admin-token", testLogger(t))
}

func TestScenariosUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scenarios", r.URL.Path)
		assert.Equal(t, "gifu_gotanda", r.URL.Query().Get("place"))
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{"id": "sc1", "title": "Quake", "narrative": []string{"A", "B"}}},
		})
	})

	records, err := client.Scenarios(context.Background(), "gifu_gotanda")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sc1", records[0].ID)
	assert.Equal(t, []string{"A", "B"}, records[0].Narrative)
}

func TestChecklistSortedByNo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quiz", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "q2", "no": 2, "question": "second"},
				{"id": "q1", "no": 1, "question": "first"},
			},
		})
	})

	items, err := client.Checklist(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "q1", items[0].ID)
	assert.Equal(t, "q2", items[1].ID)
}

func TestAnalyzeInventoryQueryShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/inventory/analyze", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "5.5", q.Get("water_l"))
		assert.Equal(t, "2", q.Get("persons"))
		assert.Equal(t, "0", q.Get("meals"))
		assert.Equal(t, "0", q.Get("toilet_bags"))
		json.NewEncoder(w).Encode(map[string]any{"estimated_days": 1.4})
	})

	result, err := client.AnalyzeInventory(context.Background(), 5.5, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.4, result.EstimatedDays, 1e-9)
}

func TestAnalyzePhotoMultipartAndVisualResolution(t *testing.T) {
	var base string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/photo", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "3", r.FormValue("persons"))
		assert.Equal(t, "0.5", r.FormValue("conf_thresh"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "shelf.jpg", header.Filename)

		json.NewEncoder(w).Encode(map[string]any{
			"counts":      map[string]int{"water_500ml": 4, "water_2l": 2},
			"visual_path": "/static/vis/abc.png",
		})
	})
	base = client.BaseURL()

	det, err := client.AnalyzePhoto(context.Background(), []byte{0xff, 0xd8}, "shelf.jpg", 3, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 4, det.Bottles500)
	assert.Equal(t, 2, det.Bottles2L)
	assert.Nil(t, det.TotalLiters)
	assert.Nil(t, det.EstimatedDays)
	assert.Equal(t, base+"/static/vis/abc.png", det.VisualizationRef)
}

func TestScoreRequestShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/levels/score", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "answers")
		assert.Contains(t, body, "inventory_days")
		assert.Contains(t, body, "flood_depth_m")
		assert.Contains(t, body, "scenario_path")
		assert.NotNil(t, body["answers"], "answers is never null on the wire")

		json.NewEncoder(w).Encode(map[string]any{
			"score_total": 72.0, "score_max": 100.0, "score_rate": 0.72, "rank": "Intermediate",
		})
	})

	res, err := client.Score(context.Background(), EvaluationRequest{InventoryDays: 1.4})
	require.NoError(t, err)
	assert.Equal(t, 72.0, res.ScoreTotal)
	assert.Equal(t, "Intermediate", res.Rank)
}

func TestAdviceUnwrapsActions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/advice", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"actions": []string{"stock water", "fix furniture"}})
	})

	actions, err := client.Advice(context.Background(), EvaluationRequest{
		Answers: []assessment.Answer{{ID: "q1", Value: assessment.AnswerYes}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"stock water", "fix furniture"}, actions)
}

func TestLastResponseEmptyMeansNoHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses/last", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
		w.Write([]byte("{}"))
	})

	snap, err := client.LastResponse(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestGroupLifecycle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/groups/create":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "My Group", r.FormValue("name"))
			json.NewEncoder(w).Encode(map[string]string{"group_id": "g-42", "name": "My Group"})
		case "/groups/join":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "u1", r.FormValue("user_id"))
			assert.Equal(t, "g-42", r.FormValue("group_id"))
			json.NewEncoder(w).Encode(map[string]string{"group_id": "g-42"})
		case "/groups/g-42/progress":
			json.NewEncoder(w).Encode(map[string]any{
				"members": []map[string]any{{"user_id": "u1", "user_name": "Aoi", "score": 80.0, "rank": "Advanced"}},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	group, err := client.CreateGroup(context.Background(), "My Group")
	require.NoError(t, err)
	assert.Equal(t, "g-42", group.GroupID)

	require.NoError(t, client.JoinGroup(context.Background(), "u1", "Aoi", "g-42"))

	members, err := client.GroupProgress(context.Background(), "g-42")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, 80.0, members[0].Score)
}

func TestPublishProgressBody(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/progress/update", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "g-42", body["group_id"])
		assert.Equal(t, 80.0, body["score"])
		assert.Equal(t, "2026-03-01T09:00:00Z", body["last_updated"])
		assert.Equal(t, "2026-03-01T09:00:00Z", body["created_at"])

		w.Write([]byte("{}"))
	})

	rec := progress.PublishRecord{
		GroupID: "g-42", UserID: "u1", UserName: "Aoi", Score: 80, Rank: "Advanced",
		Advice: []assessment.AdviceItem{{Msg: "stock water"}},
	}
	require.NoError(t, client.PublishProgress(context.Background(), rec, created))
}

func TestAdminCallsCarryBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-admin-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"user_id":"u1"}]`))
	})

	raw, err := client.AdminUsers(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"user_id":"u1"}]`, string(raw))
}

func TestRemoteErrorCarriesStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := client.Health(context.Background())
	require.Error(t, err)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusInternalServerError, remoteErr.Status)
}
