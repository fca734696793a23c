package rpc

import (
	"net"
	"net/rpc"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/logger"
	"github.com/openparty/charades/models"
	"github.com/openparty/charades/room"
	"github.com/openparty/charades/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes room inspection over net/rpc. Methods follow the
// net/rpc signature rules: exported method, exported args, pointer reply.
type AdminService struct {
	roomManager *room.Manager
	records     *services.RecordService
}

func NewAdminService(roomManager *room.Manager, records *services.RecordService) *AdminService {
	return &AdminService{roomManager: roomManager, records: records}
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	Codes []string
}

func (a *AdminService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	reply.Codes = a.roomManager.Codes()
	return nil
}

type GetRoomArgs struct {
	Code string
}

type GetRoomReply struct {
	State game.GameState
}

func (a *AdminService) GetRoomState(args *GetRoomArgs, reply *GetRoomReply) error {
	r, exists := a.roomManager.GetRoom(args.Code)
	if !exists {
		return room.ErrRoomNotFound
	}
	reply.State = r.GetState()
	return nil
}

type CloseRoomArgs struct {
	Code string
}

type CloseRoomReply struct{}

func (a *AdminService) CloseRoom(args *CloseRoomArgs, reply *CloseRoomReply) error {
	if _, exists := a.roomManager.GetRoom(args.Code); !exists {
		return room.ErrRoomNotFound
	}
	a.roomManager.RemoveRoom(args.Code)
	return nil
}

type HistoryArgs struct {
	Code  string
	Limit int
}

type HistoryReply struct {
	Records []models.GameRecord
}

func (a *AdminService) History(args *HistoryArgs, reply *HistoryReply) error {
	records, err := a.records.History(args.Code, args.Limit)
	if err != nil {
		return err
	}
	reply.Records = records
	return nil
}
