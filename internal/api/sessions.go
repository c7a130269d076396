package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/BerylCAtieno/rankrent-factory/internal/planner"
	"github.com/BerylCAtieno/rankrent-factory/internal/session"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// GenerateRequest is the form submitted by clients.
type GenerateRequest struct {
	Location string `json:"location"`
	Niche    string `json:"niche"`
	Language string `json:"language"`
}

type sessionResponse struct {
	ID    string       `json:"id"`
	State session.View `json:"state"`
}

func respondSession(c *gin.Context, status int, s *session.Session) {
	c.JSON(status, sessionResponse{ID: s.ID, State: session.ViewOf(s.Snapshot())})
}

func (s *Server) loadSession(c *gin.Context) {
	sess, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		abortError(c, http.StatusNotFound, "session not found")
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (s *Server) createSession(c *gin.Context) {
	sess := s.sessions.Create()
	log.Printf("STATE: session %s created", sess.ID)
	respondSession(c, http.StatusCreated, sess)
}

func (s *Server) getSession(c *gin.Context) {
	respondSession(c, http.StatusOK, currentSession(c))
}

func (s *Server) submitSession(c *gin.Context) {
	sess := currentSession(c)
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := sess.Submit(req.Location, req.Niche, req.Language)
	switch {
	case err == nil:
		respondSession(c, http.StatusAccepted, sess)
	case planner.IsInput(err):
		abortError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrRunInFlight), errors.Is(err, session.ErrResultsPending):
		abortError(c, http.StatusConflict, err.Error())
	case planner.IsConfiguration(err):
		respondSession(c, http.StatusServiceUnavailable, sess)
	default:
		log.Printf("ERROR: session %s submit: %v", sess.ID, err)
		abortError(c, http.StatusInternalServerError, session.UserFacingError)
	}
}

func (s *Server) resetSession(c *gin.Context) {
	sess := currentSession(c)
	if err := sess.Reset(); err != nil {
		abortError(c, http.StatusConflict, err.Error())
		return
	}
	respondSession(c, http.StatusOK, sess)
}

func (s *Server) dismissError(c *gin.Context) {
	sess := currentSession(c)
	sess.DismissError()
	respondSession(c, http.StatusOK, sess)
}

func (s *Server) deleteSession(c *gin.Context) {
	id := c.Param("id")
	if !s.sessions.Remove(id) {
		abortError(c, http.StatusNotFound, "session not found")
		return
	}
	log.Printf("STATE: session %s removed", id)
	c.Status(http.StatusNoContent)
}
