package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/websocket"

	"mapgen/noise"
	"mapgen/params"
	"mapgen/pipeline"
)

// writeWait mirrors the teacher's socket_client.go write deadline.
const writeWait = 5 * time.Second

const stepBudget = 50 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 16,
}

// frame is one streamed snapshot: the driver's accumulated output plus
// whether more stages remain (spec.md §5 "step(budget_ms) -> bool").
type frame struct {
	Output pipeline.Output `json:"output"`
	More   bool            `json:"more"`
}

// newPreviewHandler returns an http.HandlerFunc that upgrades each request
// to a websocket and streams one driver run's Step() snapshots to it.
func newPreviewHandler(base params.Params) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		seed := base.Seed
		if s := r.URL.Query().Get("seed"); s != "" {
			if parsed, err := strconv.ParseInt(s, 10, 64); err == nil {
				seed = parsed
			}
		}
		p := base
		p.Seed = seed

		sessionID := uuid.Must(uuid.NewV4())
		log.Printf("session %s: starting run (seed=%d)", sessionID, seed)

		driver := pipeline.New(p, noise.NewPerlin(seed))
		runSession(sessionID, conn, driver)
	}
}

func runSession(sessionID uuid.UUID, conn *websocket.Conn, driver *pipeline.Driver) {
	defer log.Printf("session %s: closed", sessionID)
	for {
		more := driver.Step(stepBudget)
		data, err := params.JSON.Marshal(frame{Output: driver.Output, More: more})
		if err != nil {
			log.Printf("session %s: encoding frame: %v", sessionID, err)
			return
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
		if !more {
			return
		}
	}
}
