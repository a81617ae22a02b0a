package api

import (
	"net/http"
	"time"

	"github.com/adilg123/rle-huffman-lzw/internal/compression"
	"github.com/adilg123/rle-huffman-lzw/internal/source"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Same policy as the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSCompareRequest is the single message a client sends after connecting.
type WSCompareRequest struct {
	CompareRequest
	Filename string `json:"filename"`
	Text     string `json:"text"`
	// Data is file content; encoding/json carries it as base64.
	Data []byte `json:"data"`
}

// WSMessage is what the server streams back: one "result" per finished
// algorithm, then "done" with all rows, or a single "error".
type WSMessage struct {
	Type    string               `json:"type"`
	Result  *compression.Result  `json:"result,omitempty"`
	Results []compression.Result `json:"results,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// HandleWSCompare runs a comparison and streams each row as soon as it is
// ready.
func (h *Handlers) HandleWSCompare(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.config.MaxFileSize * 2)

	var req WSCompareRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.wsSend(conn, WSMessage{Type: "error", Error: "invalid request: " + err.Error()})
		h.wsClose(conn)
		return
	}

	symbols, fileType, err := req.symbols()
	if err != nil {
		h.wsSend(conn, WSMessage{Type: "error", Error: err.Error()})
		h.wsClose(conn)
		return
	}

	progress := func(result compression.Result) {
		h.wsSend(conn, WSMessage{Type: "result", Result: &result})
	}
	results, err := compression.Compare(c.Request.Context(), symbols, h.compareOptions(req.CompareRequest, progress))
	if results == nil && err != nil {
		h.wsSend(conn, WSMessage{Type: "error", Error: err.Error()})
		h.wsClose(conn)
		return
	}
	h.record(c, req.Filename, fileType, results)

	h.wsSend(conn, WSMessage{Type: "done", Results: results})
	h.wsClose(conn)
}

// symbols picks the input: file content when present, plain text otherwise.
func (req *WSCompareRequest) symbols() ([]symbol.Symbol, source.FileType, error) {
	if len(req.Data) == 0 {
		return symbol.FromString(req.Text), source.Text, nil
	}
	name := req.Filename
	if name == "" {
		name = "upload"
	}
	data, err := source.LoadBytes(name, req.Data, req.sourceOptions())
	if err != nil {
		return nil, "", err
	}
	return data.Symbols, data.FileType, nil
}

func (h *Handlers) wsSend(conn *websocket.Conn, message WSMessage) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(message)
}

func (h *Handlers) wsClose(conn *websocket.Conn) {
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteTimeout),
	)
}
