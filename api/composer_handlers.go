package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clefbase/clefbase/composer/model"
	"github.com/clefbase/clefbase/composer/sqlmodel"
	"github.com/clefbase/clefbase/e"
)

const (
	defaultListLimit = 100

	detailNotFound = "Composer not found"
	detailExists   = "Composer already exists"
	detailNoFields = "At least one field must be provided"
)

type composerHandler struct {
	store ComposerStore
}

// composerRequest create body; field names and limits follow the table
type composerRequest struct {
	FullName    string  `json:"full_name" binding:"required,max=100"`
	Name        string  `json:"name" binding:"required,max=50"`
	BirthYear   *int    `json:"birth_year"`
	DeathYear   *int    `json:"death_year"`
	Nationality *string `json:"nationality" binding:"omitempty,max=50"`
}

// composerUpdateRequest partial update body; at least one field required
type composerUpdateRequest struct {
	FullName    *string `json:"full_name" binding:"omitempty,max=100"`
	Name        *string `json:"name" binding:"omitempty,max=50"`
	BirthYear   *int    `json:"birth_year"`
	DeathYear   *int    `json:"death_year"`
	Nationality *string `json:"nationality" binding:"omitempty,max=50"`
}

type composerResponse struct {
	ID          int     `json:"id"`
	FullName    string  `json:"full_name"`
	Name        string  `json:"name"`
	BirthYear   *int    `json:"birth_year"`
	DeathYear   *int    `json:"death_year"`
	Nationality *string `json:"nationality"`
}

func toResponse(c *model.Composer) composerResponse {
	return composerResponse{
		ID:          c.ID,
		FullName:    c.FullName,
		Name:        c.Name,
		BirthYear:   c.BirthYear,
		DeathYear:   c.DeathYear,
		Nationality: c.Nationality,
	}
}

func (h *composerHandler) create(c *gin.Context) {
	var req composerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	created, err := h.store.Create(&sqlmodel.ComposerInsertParam{
		FullName:    req.FullName,
		Name:        req.Name,
		BirthYear:   req.BirthYear,
		DeathYear:   req.DeathYear,
		Nationality: req.Nationality,
	})
	if err != nil {
		if e.ContainsError(err, e.MsgComposerExists) {
			c.JSON(http.StatusConflict, gin.H{"detail": detailExists})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(created))
}

func (h *composerHandler) list(c *gin.Context) {
	skip := parseUintQuery(c, "skip", 0)
	limit := parseUintQuery(c, "limit", defaultListLimit)

	cList, err := h.store.List(skip, limit)
	if err != nil {
		serverError(c, err)
		return
	}

	resp := make([]composerResponse, 0, len(cList))
	for _, cm := range cList {
		resp = append(resp, toResponse(cm))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *composerHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	cm, err := h.store.Get(id)
	if err != nil {
		if e.ContainsError(err, e.MsgComposerNotExists) {
			c.JSON(http.StatusNotFound, gin.H{"detail": detailNotFound})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(cm))
}

func (h *composerHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req composerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if req.FullName == nil && req.Name == nil && req.BirthYear == nil &&
		req.DeathYear == nil && req.Nationality == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": detailNoFields})
		return
	}

	updated, err := h.store.Update(id, &sqlmodel.ComposerUpdateParam{
		FullName:    req.FullName,
		Name:        req.Name,
		BirthYear:   req.BirthYear,
		DeathYear:   req.DeathYear,
		Nationality: req.Nationality,
	})
	if err != nil {
		if e.ContainsError(err, e.MsgComposerNotExists) {
			c.JSON(http.StatusNotFound, gin.H{"detail": detailNotFound})
			return
		}
		if e.ContainsError(err, e.MsgComposerExists) {
			c.JSON(http.StatusConflict, gin.H{"detail": detailExists})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(updated))
}

func (h *composerHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(id); err != nil {
		if e.ContainsError(err, e.MsgComposerNotExists) {
			c.JSON(http.StatusNotFound, gin.H{"detail": detailNotFound})
			return
		}
		serverError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// pathID parses the :id path param, answering 400 itself on bad input
func pathID(c *gin.Context) (id int, ok bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid composer id"})
		return 0, false
	}
	return id, true
}

func parseUintQuery(c *gin.Context, name string, def uint64) uint64 {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func serverError(c *gin.Context, err error) {
	log.Error().Err(err).Msg("composer handler")
	c.JSON(http.StatusInternalServerError, gin.H{"detail": e.MsgUnknownInternalServerError})
}
