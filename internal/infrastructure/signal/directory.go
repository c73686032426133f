package signal

import (
	"sync"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"
)

type binding struct {
	code domain.SessionCode
	id   domain.ParticipantID
}

// Directory maps live connections to the session and participant they
// currently represent. Pure bookkeeping; all policy lives in the room service.
type Directory struct {
	bindings map[domain.Conn]binding
	mu       sync.RWMutex
}

func NewDirectory() ports.ConnectionDirectory {
	return &Directory{
		bindings: make(map[domain.Conn]binding),
	}
}

func (d *Directory) Bind(conn domain.Conn, code domain.SessionCode, id domain.ParticipantID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings[conn] = binding{code: code, id: id}
}

func (d *Directory) Lookup(conn domain.Conn) (domain.SessionCode, domain.ParticipantID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	b, ok := d.bindings[conn]
	if !ok {
		return "", "", false
	}
	return b.code, b.id, true
}

func (d *Directory) Forget(conn domain.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.bindings, conn)
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.bindings)
}
