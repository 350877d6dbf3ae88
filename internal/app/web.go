package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/biotrack-tech/vitals_monitor/internal/config"
	"github.com/biotrack-tech/vitals_monitor/internal/gps"
	"github.com/biotrack-tech/vitals_monitor/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsHub fans the raw vitals payload out to every connected websocket client.
type wsHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newWSHub() *wsHub {
	return &wsHub{conns: make(map[*websocket.Conn]bool)}
}

func (h *wsHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
}

func (h *wsHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast writes payload to all clients, dropping any that error.
func (h *wsHub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("web: websocket write error: %v", err)
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

// RunWeb serves the latest vitals record and GPS fix as JSON, pushes live
// records over a websocket, and serves static files from ./web.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu      sync.RWMutex
		lastRec telemetry.Record
		haveRec bool
		lastFix gps.Fix
		haveFix bool
	)
	hub := newWSHub()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to vitals: update latest and push to websocket clients
	vitalsToken := client.Subscribe(cfg.TopicVitals, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r telemetry.Record
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("web: vitals unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastRec = r
		haveRec = true
		mu.Unlock()

		hub.broadcast(msg.Payload())
	})
	vitalsToken.Wait()
	if vitalsToken.Error() != nil {
		return vitalsToken.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicVitals)

	gpsToken := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("web: gps unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastFix = f
		haveFix = true
		mu.Unlock()
	})
	gpsToken.Wait()
	if gpsToken.Error() != nil {
		return gpsToken.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicGPS)

	// 3) JSON API endpoints: latest record / fix
	http.HandleFunc("/api/vitals", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveRec {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastRec); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	http.HandleFunc("/api/gps", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveFix {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastFix); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Websocket live stream: every published record is pushed as-is
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		hub.add(conn)
		log.Printf("web: websocket client connected from %s", r.RemoteAddr)

		// Reader loop only detects client close; the hub does the writing.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						log.Printf("web: websocket error: %v", err)
					}
					hub.remove(conn)
					return
				}
			}
		}()
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
