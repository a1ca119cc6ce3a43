package frontend

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/uriscope/uriscope/modules/ui"
	"github.com/uriscope/uriscope/modules/view"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// progressHub fans page load state transitions out to connected
// websocket clients, so the page can show pipeline progress live.
type progressHub struct {
	sync.Mutex
	clients map[*websocket.Conn]struct{}
}

type progressUpdate struct {
	URI   string     `json:"uri"`
	State view.State `json:"state"`
	Time  time.Time  `json:"time"`
}

func (h *progressHub) add(conn *websocket.Conn) {
	h.Lock()
	defer h.Unlock()
	if h.clients == nil {
		h.clients = make(map[*websocket.Conn]struct{})
	}
	h.clients[conn] = struct{}{}
}

func (h *progressHub) remove(conn *websocket.Conn) {
	h.Lock()
	defer h.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *progressHub) broadcast(update progressUpdate) {
	h.Lock()
	defer h.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(update); err != nil {
			ui.Debug().Msgf("Dropping progress subscriber: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// progressNotifier adapts the hub to the session state callback.
func (ws *WebService) progressNotifier(path string) func(view.State) {
	return func(st view.State) {
		ws.progress.broadcast(progressUpdate{
			URI:   path,
			State: st,
			Time:  time.Now(),
		})
	}
}

func AddProgressEndpoints(ws *WebService) {
	ws.API.GET("progress", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			ui.Warn().Msgf("Progress websocket upgrade failed: %v", err)
			return
		}
		ws.progress.add(conn)
		go func() {
			// Drain control frames; any read error means the client left.
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					ws.progress.remove(conn)
					return
				}
			}
		}()
	})
}
