// Package session binds websocket connections to player ids.
package session

import (
	"sync"

	"GroveWorld/internal/shared/transport/ws"
)

// KickedMsg is pushed to a connection replaced by a newer login of the
// same player.
const KickedMsg = "session.kicked"

type Manager interface {
	Bind(playerID, token string, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	UnbindPlayer(playerID string)
	GetConn(playerID string) (ws.WSConn, bool)
	GetPlayer(conn ws.WSConn) (string, bool)
	Online() int
}

type SessMgr struct {
	sync.RWMutex
	tokens  map[string]string
	conns   map[string]ws.WSConn
	players map[ws.WSConn]string
	watched map[ws.WSConn]struct{}
}

func NewSessMgr() Manager {
	return &SessMgr{
		tokens:  make(map[string]string),
		conns:   make(map[string]ws.WSConn),
		players: make(map[ws.WSConn]string),
		watched: make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Bind(playerID, token string, conn ws.WSConn) {
	if conn == nil || playerID == "" {
		return
	}
	s.Lock()
	defer s.Unlock()

	// One watcher per connection unbinds it when it closes.
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	if prev, ok := s.players[conn]; ok && prev != playerID && s.conns[prev] == conn {
		delete(s.conns, prev)
		delete(s.tokens, prev)
	}
	old := s.conns[playerID]
	if old != nil && old != conn {
		delete(s.players, old)
		go func() {
			old.Push(KickedMsg, nil)
			old.Close()
		}()
	}
	s.conns[playerID] = conn
	s.players[conn] = playerID
	s.tokens[playerID] = token
	conn.SetProperty(ws.ConnKeyUID, playerID)
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	delete(s.watched, conn)
	playerID, ok := s.players[conn]
	if !ok {
		return
	}
	delete(s.players, conn)
	if s.conns[playerID] == conn {
		delete(s.conns, playerID)
		delete(s.tokens, playerID)
	}
}

func (s *SessMgr) UnbindPlayer(playerID string) {
	s.Lock()
	defer s.Unlock()
	if conn, ok := s.conns[playerID]; ok {
		delete(s.players, conn)
	}
	delete(s.conns, playerID)
	delete(s.tokens, playerID)
}

func (s *SessMgr) GetConn(playerID string) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.conns[playerID]
	return conn, ok
}

func (s *SessMgr) GetPlayer(conn ws.WSConn) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	playerID, ok := s.players[conn]
	return playerID, ok
}

func (s *SessMgr) Online() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.conns)
}
