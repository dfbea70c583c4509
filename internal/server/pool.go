package server

import (
	"fmt"
	"log"
	"sync"
)

// Pool tracks which client connections are attached to which entity's
// timer session, so tick and alarm updates can be pushed to every surface
// that is watching. Watchers are held as *SyncConn so a pushed frame and a
// handler's response to the same connection serialize on one write mutex
// and never interleave on the wire.
type Pool struct {
	mu *sync.RWMutex
	m  map[string][]*SyncConn
	e  map[string]*Error
}

func NewPool(l *log.Logger) *Pool {
	return &Pool{
		mu: &sync.RWMutex{},
		m:  make(map[string][]*SyncConn),
		e:  make(map[string]*Error),
	}
}

// AddSession registers a fresh watcher list for an entity's session,
// replacing any previous one.
func (p *Pool) AddSession(entityId string, conn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn == nil {
		p.m[entityId] = []*SyncConn{}
		return
	}
	p.m[entityId] = []*SyncConn{conn}
}

// AddConnections attaches additional watcher connections to an entity.
func (p *Pool) AddConnections(entityId string, conns []*SyncConn) {
	p.mu.RLock()
	_conns := p.m[entityId]
	p.mu.RUnlock()
	if _conns == nil {
		_conns = []*SyncConn{}
	}
	_conns = append(_conns, conns...)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[entityId] = _conns
}

// HasSession reports whether the entity has a watcher list registered.
func (p *Pool) HasSession(entityId string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.m[entityId]
	return ok
}

// RemoveSession drops the watcher list for an entity, closing its
// connections. Called when the session ends.
func (p *Pool) RemoveSession(entityId string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, conn := range p.m[entityId] {
		_ = conn.Conn.Close()
	}
	delete(p.m, entityId)
	delete(p.e, entityId)
}

// Broadcast writes a framed message to every watcher of the entity.
// Each write goes through the watcher's SyncConn, taking the same write
// mutex as handler responses. Watchers whose connection errors are dropped
// from the pool.
func (p *Pool) Broadcast(entityId string, data []byte) error {
	p.mu.RLock()
	conns := append([]*SyncConn(nil), p.m[entityId]...)
	p.mu.RUnlock()

	var firstErr error
	for _, conn := range conns {
		if err := conn.Write(data); err != nil {
			p.dropConn(entityId, conn)
			if firstErr == nil {
				firstErr = fmt.Errorf("error writing: %s", err.Error())
			}
		}
	}
	return firstErr
}

// BroadcastAll writes a framed message to every watcher of every entity.
// Used for process-wide events like the alarm being silenced.
func (p *Pool) BroadcastAll(data []byte) {
	p.mu.RLock()
	entities := make([]string, 0, len(p.m))
	for entityId := range p.m {
		entities = append(entities, entityId)
	}
	p.mu.RUnlock()
	for _, entityId := range entities {
		_ = p.Broadcast(entityId, data)
	}
}

func (p *Pool) WriteError(entityId string, errType ErrorType, errMessage string) {
	p.mu.RLock()
	err, ok := p.e[entityId]
	if ok && err.Type == ErrorTypeCritical && errType != ErrorTypeCritical {
		p.mu.RUnlock()
		return
	}
	p.mu.RUnlock()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.e[entityId] = &Error{errType, errMessage}
}

func (p *Pool) ForceWriteError(entityId string, errType ErrorType, errMessage string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.e[entityId] = &Error{errType, errMessage}
}

func (p *Pool) GetError(entityId string) *Error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.e[entityId]
}

func (p *Pool) dropConn(entityId string, conn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = conn.Conn.Close()
	conns := p.m[entityId]
	for i, c := range conns {
		if c == conn {
			// shift last connection to the freed index, slice it off
			conns[i] = conns[len(conns)-1]
			p.m[entityId] = conns[:len(conns)-1]
			return
		}
	}
}
