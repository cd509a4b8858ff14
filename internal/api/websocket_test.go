package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-builder/backend/pkg/models"
)

func TestWebsocketStreamsExecutionEvents(t *testing.T) {
	env := newTestEnv(t, 5*time.Millisecond)
	srv := httptest.NewServer(env.e)
	defer srv.Close()

	rec := env.do(t, http.MethodPost, "/api/v1/workflows", `{
		"name": "Streamed",
		"nodes": [{"id": "a", "type": "manual-trigger"}, {"id": "b", "type": "delay"}],
		"edges": [{"id": "e1", "source": "a", "target": "b"}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	wf := decode[models.Workflow](t, rec)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws?workflowId=" + wf.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	rec = env.do(t, http.MethodPost, "/api/v1/workflows/"+wf.ID+"/execute", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var received []models.ExecutionEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var event models.ExecutionEvent
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, wf.ID, event.WorkflowID)
		received = append(received, event)

		if event.Type == "status" && event.Status.Terminal() {
			break
		}
	}

	require.Len(t, received, 4)
	assert.Equal(t, models.ExecutionStatusRunning, received[0].Status)
	assert.Equal(t, "a", received[1].NodeID)
	assert.Equal(t, "b", received[2].NodeID)
	assert.Equal(t, models.ExecutionStatusCompleted, received[3].Status)
}

func TestHubPublishWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	// No clients: publishing must be a no-op.
	hub.Publish(models.ExecutionEvent{WorkflowID: "x", Status: models.ExecutionStatusRunning})
	assert.Equal(t, 0, hub.Clients())
}
