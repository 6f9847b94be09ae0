package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream(t *testing.T) {
	f := setup(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	id := f.createSession(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + id + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	read := func() StreamMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg StreamMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	initial := read()
	assert.Equal(t, "state", initial.Type)
	assert.Empty(t, initial.State.SelectedAppID)

	w := f.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/ui", map[string]bool{"mobilePanelOpen": true})
	require.Equal(t, http.StatusOK, w.Code)

	// Coalescing may skip intermediate snapshots but never the latest one.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msg := read()
		if msg.State.IsMobilePanelOpen {
			assert.Greater(t, msg.State.Version, initial.State.Version)
			return
		}
	}
	t.Fatal("no snapshot with the panel open")
}

func TestStreamUnknownSession(t *testing.T) {
	f := setup(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/missing/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
