package bridge

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicsync/internal/db"
	"github.com/clinicdesk/clinicsync/internal/models"
)

type syncOp int

const (
	pullOp syncOp = iota
	pushOp
)

type syncRequest struct {
	DoctorID string `json:"doctorId"`
}

// syncHandler triggers one pull or push cycle on the given engine. A missing
// doctorId in the body falls back to the configured acting doctor.
func (s *Server) syncHandler(engine Engine, op syncOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req syncRequest
		_ = c.ShouldBindJSON(&req)
		if req.DoctorID == "" {
			req.DoctorID, _ = s.store.GetSetting(db.SettingDoctorID)
		}

		var (
			data any
			err  error
		)
		if op == pullOp {
			data, err = engine.Pull(c.Request.Context(), req.DoctorID)
		} else {
			data, err = engine.Push(c.Request.Context(), req.DoctorID)
		}
		if err != nil {
			respondErr(c, err)
			return
		}
		respond(c, data)
	}
}

func (s *Server) autoSyncHandler(engine Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErr(c, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		engine.EnableAutoSync(req.Enabled)
		respond(c, gin.H{"active": engine.AutoSyncActive()})
	}
}

func (s *Server) networkStatus(c *gin.Context) {
	status := s.network.Status()
	respond(c, gin.H{
		"status": status.String(),
		"online": s.network.CheckNow(c.Request.Context()),
	})
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	user, err := s.auth.EmailLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, user)
}

func (s *Server) logout(c *gin.Context) {
	if err := s.auth.SignOut(c.Request.Context()); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, gin.H{"signedOut": true})
}

// currentUser never fails: an absent identity is data (null), not an error.
func (s *Server) currentUser(c *gin.Context) {
	respond(c, s.auth.GetCurrentUser())
}

func (s *Server) listAppointments(c *gin.Context) {
	appts, err := s.store.ListAppointments()
	if err != nil {
		respondErr(c, err)
		return
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	respond(c, appts)
}

func (s *Server) createAppointment(c *gin.Context) {
	var a models.Appointment
	if err := c.ShouldBindJSON(&a); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := s.store.CreateAppointment(&a); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, a)
}

func (s *Server) updateAppointment(c *gin.Context) {
	var a models.Appointment
	if err := c.ShouldBindJSON(&a); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	a.ID = c.Param("id")
	if err := s.store.UpdateAppointment(&a); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, a)
}

func (s *Server) listArticles(c *gin.Context) {
	articles, err := s.store.ListArticles()
	if err != nil {
		respondErr(c, err)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}
	respond(c, articles)
}

func (s *Server) createArticle(c *gin.Context) {
	var a models.Article
	if err := c.ShouldBindJSON(&a); err != nil {
		respondErr(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := s.store.CreateArticle(&a); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, a)
}

func (s *Server) syncStatus(c *gin.Context) {
	doctorID, _ := s.store.GetSetting(db.SettingDoctorID)
	apptsAt, _ := s.store.GetSetting(db.SettingAppointmentsSyncedAt)
	articlesAt, _ := s.store.GetSetting(db.SettingArticlesSyncedAt)
	respond(c, gin.H{
		"doctorId": doctorID,
		"appointments": gin.H{
			"autoSyncActive": s.appointments.AutoSyncActive(),
			"lastSyncAt":     apptsAt,
		},
		"articles": gin.H{
			"autoSyncActive": s.articles.AutoSyncActive(),
			"lastSyncAt":     articlesAt,
		},
	})
}

func (s *Server) setDoctor(c *gin.Context) {
	var req struct {
		DoctorID string `json:"doctorId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.DoctorID == "" {
		respondErr(c, fmt.Errorf("%w: doctorId is required", errBadRequest))
		return
	}
	if err := s.store.SetSetting(db.SettingDoctorID, req.DoctorID); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, gin.H{"doctorId": req.DoctorID, "savedAt": time.Now().UTC().Format(time.RFC3339)})
}
