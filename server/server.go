package server

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	netrpc "net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/openparty/charades/broadcast"
	"github.com/openparty/charades/game"
	"github.com/openparty/charades/logger"
	"github.com/openparty/charades/monitor"
	"github.com/openparty/charades/network"
	"github.com/openparty/charades/persistence"
	charades_rpc "github.com/openparty/charades/rpc"
	"github.com/openparty/charades/room"
	"github.com/openparty/charades/services"
	"github.com/openparty/charades/session"
	"github.com/openparty/charades/timer"
)

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	recordService  *services.RecordService
	broadcaster    room.Broadcaster
	timers         *timer.Manager
	rpcServer      *charades_rpc.Server
	mon            *monitor.Monitor
	monitorAddr    string
	shutdownChan   chan struct{}
}

func NewGameServer(addr, rpcAddr, monitorAddr string, db persistence.Database) *GameServer {
	s := &GameServer{
		addr:           addr,
		sessionManager: session.NewManager(),
		recordService:  services.NewRecordService(db),
		timers:         timer.NewManager(),
		mon:            monitor.NewMonitor("charades"),
		monitorAddr:    monitorAddr,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.roomManager = room.NewManager(db, s.recordService, s.timers)
	s.broadcaster = &instrumentedBroadcaster{
		inner: broadcast.NewRoomBroadcaster(s.roomManager),
		mon:   s.mon,
	}

	rpcServer, err := charades_rpc.NewServer(rpcAddr)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	adminService := charades_rpc.NewAdminService(s.roomManager, s.recordService)
	netrpc.Register(adminService)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.mon.StartServer(s.monitorAddr)

	mux := http.NewServeMux()
	mux.HandleFunc("/rooms", s.handleRooms)
	mux.HandleFunc("/host", s.handleHostCommand)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.roomManager.Shutdown()
	s.timers.Stop()
}

// --- room lifecycle over HTTP ---

// GenerateCode returns a 6-character room code from crypto/rand.
func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func (s *GameServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRoom(w, r)
	case http.MethodDelete:
		s.handleCloseRoom(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *GameServer) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // empty body is fine
	}

	code := req.Code
	if code == "" {
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			if _, exists := s.roomManager.GetRoom(c); !exists {
				code = c
				break
			}
			logger.Log.Warnf("Room code collision on %s, regenerating", c)
		}
	}

	if _, err := s.roomManager.CreateRoom(code, game.ModeOnline, s.broadcaster); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.mon.SetActiveRooms(s.roomManager.Count())
	logger.Log.Infof("Created room %s", code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		Code string `json:"code"`
	}{Code: code})
}

func (s *GameServer) handleCloseRoom(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if _, exists := s.roomManager.GetRoom(code); !exists {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	s.roomManager.RemoveRoom(code)
	s.mon.SetActiveRooms(s.roomManager.Count())
	logger.Log.Infof("Closed room %s", code)
	w.WriteHeader(http.StatusNoContent)
}

// --- player connections ---

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	rm, exists := s.roomManager.GetRoom(code)
	if !exists {
		// Rejecting before the upgrade makes the handshake fail, which the
		// player side reports as "host unreachable, check room code".
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(rm, conn)
}

func (s *GameServer) handleConnection(rm *room.Room, conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.mon.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		rm.DetachSession(sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.mon.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			env, err := wsConn.ReadEnvelope()
			if err != nil {
				return
			}
			s.mon.IncMessagesReceived()
			s.handleEnvelope(rm, sess, env)
		}
	}
}

func (s *GameServer) handleEnvelope(rm *room.Room, sess *session.Session, env *network.Envelope) {
	switch env.Type {
	case network.MsgPlayerJoin:
		var player game.Player
		if err := json.Unmarshal(env.Payload, &player); err != nil {
			logger.Log.Warnf("Session %s sent malformed join: %v", sess.GetID(), err)
			return
		}
		rm.HandleJoin(sess, player)

	case network.MsgRequestState:
		sess.Touch()
		rm.HandleStateRequest(sess)

	case network.MsgPlayerAction:
		var payload network.PlayerActionPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			logger.Log.Warnf("Session %s sent malformed action: %v", sess.GetID(), err)
			return
		}
		rm.HandlePlayerAction(payload)

	default:
		logger.Log.Infof("Unknown message type: %s", env.Type)
	}
}

// instrumentedBroadcaster observes fan-out latency around the real one.
type instrumentedBroadcaster struct {
	inner room.Broadcaster
	mon   *monitor.Monitor
}

func (b *instrumentedBroadcaster) BroadcastToRoom(roomCode, msgType string, payload interface{}) error {
	start := time.Now()
	err := b.inner.BroadcastToRoom(roomCode, msgType, payload)
	b.mon.ObserveBroadcastLatency(time.Since(start))
	return err
}

func (b *instrumentedBroadcaster) BroadcastToRoomExcept(roomCode, sessionID, msgType string, payload interface{}) error {
	start := time.Now()
	err := b.inner.BroadcastToRoomExcept(roomCode, sessionID, msgType, payload)
	b.mon.ObserveBroadcastLatency(time.Since(start))
	return err
}
