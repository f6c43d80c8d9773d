package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"happy-thoughts-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev wireEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestFeed_StreamsThoughtEvents(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.handler)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	assert.Equal(t, EventConnected, readEvent(t, conn).Type)
	assert.Equal(t, 1, api.hub.Count())

	user := api.register(t, "ada")
	th := api.post(t, user.AccessToken, "streamed thought")

	ev := readEvent(t, conn)
	assert.Equal(t, services.EventThoughtCreated, ev.Type)
	assert.Contains(t, string(ev.Data), th.ID)

	rec := api.do(t, http.MethodPatch, "/thoughts/"+th.ID+"/like", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ev = readEvent(t, conn)
	assert.Equal(t, services.EventThoughtLiked, ev.Type)
	assert.Contains(t, string(ev.Data), `"hearts":1`)

	rec = api.do(t, http.MethodDelete, "/thoughts/"+th.ID, user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ev = readEvent(t, conn)
	assert.Equal(t, services.EventThoughtDeleted, ev.Type)
	assert.JSONEq(t, `{"_id":"`+th.ID+`"}`, string(ev.Data))
}

func TestFeed_UnregistersOnClose(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.handler)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	readEvent(t, conn)
	require.Equal(t, 1, api.hub.Count())

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool {
		return api.hub.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
