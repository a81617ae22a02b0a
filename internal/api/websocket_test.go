package api_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adilg123/rle-huffman-lzw/internal/api"
	"github.com/adilg123/rle-huffman-lzw/internal/history"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialCompare(t *testing.T) (*websocket.Conn, *history.MemoryStore) {
	t.Helper()
	router, store := newServer(t)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws/compare"
	dialer := &websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, store
}

// readUntilDone collects messages until "done" or "error".
func readUntilDone(t *testing.T, conn *websocket.Conn) []api.WSMessage {
	t.Helper()
	var messages []api.WSMessage
	for {
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		var message api.WSMessage
		require.NoError(t, conn.ReadJSON(&message))
		messages = append(messages, message)
		if message.Type == "done" || message.Type == "error" {
			return messages
		}
	}
}

func TestWSCompare__Text(t *testing.T) {
	conn, store := dialCompare(t)

	require.NoError(t, conn.WriteJSON(api.WSCompareRequest{
		Filename: "typed",
		Text:     strings.Repeat("to be or not to be ", 20),
	}))
	messages := readUntilDone(t, conn)

	require.Len(t, messages, 4)
	seen := map[string]bool{}
	for _, message := range messages[:3] {
		require.Equal(t, "result", message.Type)
		require.NotNil(t, message.Result)
		assert.True(t, message.Result.IsCorrect, message.Result.Algorithm)
		seen[message.Result.Algorithm] = true
	}
	assert.Len(t, seen, 3)

	done := messages[3]
	require.Len(t, done.Results, 3)
	assert.Equal(t, "rle", done.Results[0].Algorithm)
	assert.Equal(t, "huffman", done.Results[1].Algorithm)
	assert.Equal(t, "lzw", done.Results[2].Algorithm)

	records, err := store.List(history.Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "typed", records[0].Filename)
}

func TestWSCompare__FileData(t *testing.T) {
	conn, _ := dialCompare(t)

	baselines := false
	req := api.WSCompareRequest{
		Filename: "rows.csv",
		Data:     []byte("a,b\n1,1\n1,1\n1,1\n"),
	}
	req.Algorithms = []string{"lzw"}
	req.Baselines = &baselines
	require.NoError(t, conn.WriteJSON(req))

	messages := readUntilDone(t, conn)
	require.Len(t, messages, 2)
	assert.Equal(t, "lzw", messages[0].Result.Algorithm)
	assert.Equal(t, "done", messages[1].Type)
}

func TestWSCompare__Errors(t *testing.T) {
	t.Run("unsupported file", func(t *testing.T) {
		conn, _ := dialCompare(t)
		require.NoError(t, conn.WriteJSON(api.WSCompareRequest{Filename: "film.avi", Data: []byte{1, 2, 3}}))
		messages := readUntilDone(t, conn)
		require.Len(t, messages, 1)
		assert.Equal(t, "error", messages[0].Type)
		assert.Contains(t, messages[0].Error, "unsupported file type")
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		conn, _ := dialCompare(t)
		req := api.WSCompareRequest{Text: "abc"}
		req.Algorithms = []string{"zip"}
		require.NoError(t, conn.WriteJSON(req))
		messages := readUntilDone(t, conn)
		require.Len(t, messages, 1)
		assert.Equal(t, "error", messages[0].Type)
	})

	t.Run("not json", func(t *testing.T) {
		conn, _ := dialCompare(t)
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
		messages := readUntilDone(t, conn)
		assert.Equal(t, "error", messages[0].Type)
	})
}
