package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/artifact"
	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/planner"
	"github.com/BerylCAtieno/rankrent-factory/internal/session"
	"github.com/BerylCAtieno/rankrent-factory/internal/store"
	"github.com/gin-gonic/gin"
)

const defaultListLimit = 50

type generateResponse struct {
	ID   string               `json:"id,omitempty"`
	Plan *models.BusinessPlan `json:"plan,omitempty"`
	Logs []models.LogEntry    `json:"logs"`
}

// generatePlan runs a generation synchronously and archives the result.
func (s *Server) generatePlan(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := planner.NewInput(req.Location, req.Niche, req.Language)
	if err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.generator.Ready(); err != nil {
		log.Printf("ERROR: generate plan: %v", err)
		abortError(c, http.StatusServiceUnavailable, session.UserFacingError)
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	logs := []models.LogEntry{}
	plan, err := s.generator.GeneratePlan(ctx, in.Location, in.Niche, in.Language, func(e models.LogEntry) {
		logs = append(logs, e)
	})
	if err != nil {
		log.Printf("ERROR: generate plan: %v", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": session.UserFacingError, "logs": logs})
		return
	}

	resp := generateResponse{Plan: plan, Logs: logs}
	if s.archiver != nil {
		if resp.ID, err = s.archiver.Archive(ctx, plan); err != nil {
			log.Printf("WARN: archive plan: %v", err)
		}
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) plans(c *gin.Context) (store.Store, bool) {
	if s.archiver == nil || s.archiver.Plans() == nil {
		abortError(c, http.StatusNotFound, "plan archive is disabled")
		return nil, false
	}
	return s.archiver.Plans(), true
}

func (s *Server) listPlans(c *gin.Context) {
	plans, ok := s.plans(c)
	if !ok {
		return
	}
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			abortError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}
	list, err := plans.List(c.Request.Context(), limit)
	if err != nil {
		log.Printf("ERROR: list plans: %v", err)
		abortError(c, http.StatusInternalServerError, "failed to list plans")
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"plans": list})
}

func (s *Server) loadRecord(c *gin.Context) (store.Record, bool) {
	plans, ok := s.plans(c)
	if !ok {
		return store.Record{}, false
	}
	rec, err := plans.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		abortError(c, http.StatusNotFound, "plan not found")
		return store.Record{}, false
	}
	if err != nil {
		log.Printf("ERROR: get plan %s: %v", c.Param("id"), err)
		abortError(c, http.StatusInternalServerError, "failed to load plan")
		return store.Record{}, false
	}
	return rec, true
}

func (s *Server) getPlan(c *gin.Context) {
	rec, ok := s.loadRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) downloadBundle(c *gin.Context) {
	rec, ok := s.loadRecord(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "rankrent-"+rec.ID+".zip"))
	c.Status(http.StatusOK)
	if err := artifact.WriteZip(c.Writer, rec.Plan.SiteAssets); err != nil {
		log.Printf("ERROR: bundle %s: %v", rec.ID, err)
	}
}

type assetList struct {
	PlanID string   `json:"planId"`
	Assets []string `json:"assets"`
}

// listAssets reports the published asset paths of a plan, or the plan's own
// file list when nothing was published.
func (s *Server) listAssets(c *gin.Context) {
	rec, ok := s.loadRecord(c)
	if !ok {
		return
	}
	var paths []string
	if assets := s.archiver.Assets(); assets != nil {
		list, err := assets.List(c.Request.Context(), rec.ID)
		if err != nil {
			log.Printf("WARN: list assets %s: %v", rec.ID, err)
		}
		paths = list
	}
	if len(paths) == 0 {
		paths = make([]string, 0, len(rec.Plan.SiteAssets))
		for _, f := range rec.Plan.SiteAssets {
			paths = append(paths, f.Path)
		}
		sort.Strings(paths)
	}
	c.JSON(http.StatusOK, assetList{PlanID: rec.ID, Assets: paths})
}

// getAsset serves one site asset. A store that hands out direct URLs gets a
// redirect; otherwise the bytes come from the store or the archived plan.
func (s *Server) getAsset(c *gin.Context) {
	rec, ok := s.loadRecord(c)
	if !ok {
		return
	}
	path := strings.TrimPrefix(c.Param("path"), "/")
	f, found := rec.Plan.Asset(path)
	if !found {
		abortError(c, http.StatusNotFound, "asset not found")
		return
	}

	if assets := s.archiver.Assets(); assets != nil {
		ctx := c.Request.Context()
		url, err := assets.GetURL(ctx, rec.ID, path)
		if err != nil {
			log.Printf("WARN: asset url %s/%s: %v", rec.ID, path, err)
		} else if url != "" {
			c.Redirect(http.StatusFound, url)
			return
		}

		data, err := assets.Get(ctx, rec.ID, path)
		if err == nil {
			c.Data(http.StatusOK, artifact.ContentType(path), data)
			return
		}
		if !errors.Is(err, artifact.ErrNotFound) {
			log.Printf("WARN: asset %s/%s: %v", rec.ID, path, err)
		}
	}
	c.Data(http.StatusOK, artifact.ContentType(path), []byte(f.Content))
}
