package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server and a map of
// socket connections keyed by user id. It is used to handle socket.io
// connections.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track user_id -> socket connections
	UserConnections map[int]*socket.Socket
	mutex           sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		UserConnections: make(map[int]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(userID int, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[userID] = socket
}

func (s *SocketServer) RemoveConnection(userID int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.UserConnections, userID)
}

func (s *SocketServer) GetConnection(userID int) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	socket, exists := s.UserConnections[userID]
	return socket, exists
}
