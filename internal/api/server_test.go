package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/acreage/internal/config"
	"github.com/talgya/acreage/internal/engine"
	"github.com/talgya/acreage/internal/session"
)

func testServer(t *testing.T) (*Server, *engine.Loop) {
	t.Helper()
	sess := session.New(config.Default(), 42)
	loop := engine.NewLoop(sess, nil)
	return &Server{Loop: loop, Port: 0}, loop
}

// The status payload must be fully copied out of the engine lock.
// Encoding a live map while the tick goroutine writes to it crashes
// the runtime, so this hammers the handler against concurrent
// inventory mutation; run with -race to catch a leaked reference.
func TestStatusEncodesInventoryCopy(t *testing.T) {
	srv, loop := testServer(t)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			loop.View(func(s *session.Session) {
				s.Field.Inventory["Wheat"]++
			})
		}
	}()

	for i := 0; i < 200; i++ {
		rec := httptest.NewRecorder()
		srv.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	wg.Wait()
}

func TestStatusReportsSessionState(t *testing.T) {
	srv, loop := testServer(t)
	loop.Apply(session.Intent{Kind: session.IntentBuyLand, X: 0, Y: 0})
	loop.View(func(s *session.Session) {
		s.Field.Inventory["Corn"] = 4
	})

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Money     float64        `json:"money"`
		Workers   int            `json:"workers"`
		Inventory map[string]int `json:"inventory"`
		Stored    int            `json:"stored"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, 29500.0, status.Money)
	require.Equal(t, 1, status.Workers)
	require.Equal(t, 4, status.Inventory["Corn"])
	require.Equal(t, 4, status.Stored)

	// Mutating the decoded copy must not reach the session.
	status.Inventory["Corn"] = 99
	loop.View(func(s *session.Session) {
		require.Equal(t, 4, s.Field.Inventory["Corn"])
	})
}

func TestIntentEndpointRejectsNonPost(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.handleIntent(rec, httptest.NewRequest(http.MethodGet, "/api/v1/intent", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
