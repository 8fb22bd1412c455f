// Package labserver implements the statistical service the client
// synchronizes with: session table state, the outlier engine, pass-average
// collections, saved datasets and the CSV exports. It exists so the
// interaction layer can be developed and integration-tested against the
// real wire contract.
package labserver

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"outlierlab/domain/calc"
	"outlierlab/domain/pass"
	"outlierlab/domain/table"
)

const (
	sessionCookie = "lab_session"
	defaultRows   = 20
)

// session is one browser session's server-held state. The table copy here
// is the authoritative one; the client grid is a rendering of it.
type session struct {
	mu sync.Mutex

	SampleName      string
	ProductionDate  string
	PassCount       int
	CustomFieldName string

	Table        *table.Dataset
	Experimental []pass.Record
	Control      []pass.Record

	LastDetection *Detection
}

func newSession() *session {
	return &session{
		PassCount: 1,
		Table:     table.NewWithRows(defaultRows),
	}
}

// reset restores the initial session shape in place.
func (s *session) reset() {
	s.SampleName = ""
	s.ProductionDate = ""
	s.PassCount = 1
	s.CustomFieldName = ""
	s.Table = table.NewWithRows(defaultRows)
	s.Experimental = nil
	s.Control = nil
	s.LastDetection = nil
}

// group returns a pointer to one group's record slice.
func (s *session) group(g pass.GroupType) *[]pass.Record {
	if g == pass.GroupControl {
		return &s.Control
	}
	return &s.Experimental
}

// allRecords returns both groups combined, experimental first.
func (s *session) allRecords() []pass.Record {
	out := append([]pass.Record(nil), s.Experimental...)
	return append(out, s.Control...)
}

// sessionManager keys server-held sessions by cookie.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionManager() *sessionManager {
	return &sessionManager{sessions: make(map[string]*session)}
}

// acquire returns the request's session, minting a cookie for first-time
// visitors.
func (m *sessionManager) acquire(c *gin.Context) *session {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		sess = newSession()
		m.sessions[id] = sess
	}
	return sess
}

// thresholdsOrDefault normalizes incoming detection parameters.
func thresholdsOrDefault(t calc.Thresholds) calc.Thresholds {
	if t.ZScore == 0 && t.IQR == 0 && t.MAD == 0 {
		return calc.DefaultThresholds()
	}
	return t.Normalized()
}

// abortJSON is a tiny helper for the handful of handlers that reject before
// touching session state.
func abortJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}
