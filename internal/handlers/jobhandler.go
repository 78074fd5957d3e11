package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/dtos"
	"github.com/justsurfingit/jobhunter/internal/filter"
	"github.com/justsurfingit/jobhunter/internal/models"
	"github.com/justsurfingit/jobhunter/internal/services"
)

type JobHandler struct {
	LLMService *services.LLMService
	JobService *services.JobService
}

// NewJobHandler creates the handler. llm may be nil when extraction is not
// configured.
func NewJobHandler(llm *services.LLMService, j *services.JobService) *JobHandler {
	return &JobHandler{LLMService: llm, JobService: j}
}

// ParseJob is the POST /jobs/extract endpoint. The draft it returns is not
// stored.
func (h *JobHandler) ParseJob(c *gin.Context) {
	if h.LLMService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": services.ErrLLMDisabled.Error()})
		return
	}
	var req dtos.JobExtractionRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := dtos.Struct(&req); err != nil {
		respondError(c, err)
		return
	}
	draft, err := h.LLMService.ExtractJobDetails(c.Request.Context(), req.RawHTML, req.URL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI Extraction failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": draft})
}

// ListJobs is GET /jobs?search=&track=&status=&archived=
func (h *JobHandler) ListJobs(c *gin.Context) {
	criteria := filter.Criteria{
		Search: c.Query("search"),
		Track:  c.Query("track"),
		Status: c.Query("status"),
	}
	if v := c.Query("archived"); v != "" && v != filter.All {
		archived, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, apperrors.NewValidationError("archived", "must be true, false or all"))
			return
		}
		criteria.Archived = &archived
	}
	jobs, err := h.JobService.List(c.Request.Context(), userID(c), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.JobService.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.JobService.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) PatchJob(c *gin.Context) {
	var req dtos.JobPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := dtos.ValidatePatch(&req); err != nil {
		respondError(c, err)
		return
	}
	h.respondJob(c)(h.JobService.Patch(c.Request.Context(), userID(c), c.Param("id"), req))
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.JobService.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JobHandler) ChangeStatus(c *gin.Context) {
	var req dtos.StatusChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := dtos.Struct(&req); err != nil {
		respondError(c, err)
		return
	}
	h.respondJob(c)(h.JobService.ChangeStatus(c.Request.Context(), userID(c), c.Param("id"), req.Status))
}

func (h *JobHandler) ChangeDate(c *gin.Context) {
	var req dtos.DateChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := dtos.Struct(&req); err != nil {
		respondError(c, err)
		return
	}
	h.respondJob(c)(h.JobService.ChangeDate(c.Request.Context(), userID(c), c.Param("id"), req.Date))
}

func (h *JobHandler) ToggleArchive(c *gin.Context) {
	h.respondJob(c)(h.JobService.ToggleArchive(c.Request.Context(), userID(c), c.Param("id")))
}

func (h *JobHandler) AddHistory(c *gin.Context) {
	var req dtos.HistoryEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := dtos.Struct(&req); err != nil {
		respondError(c, err)
		return
	}
	h.respondJob(c)(h.JobService.AddHistoryEntry(c.Request.Context(), userID(c), c.Param("id"), req))
}

func (h *JobHandler) RemoveHistory(c *gin.Context) {
	h.removeAt(c, h.JobService.RemoveHistoryEntry)
}

func (h *JobHandler) AddResource(c *gin.Context) {
	var req dtos.ResourceRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := dtos.Struct(&req); err != nil {
		respondError(c, err)
		return
	}
	h.respondJob(c)(h.JobService.AddResource(c.Request.Context(), userID(c), c.Param("id"), req))
}

func (h *JobHandler) RemoveResource(c *gin.Context) {
	h.removeAt(c, h.JobService.RemoveResource)
}

func (h *JobHandler) AddReminder(c *gin.Context) { h.addText(c, h.JobService.AddReminder) }

func (h *JobHandler) RemoveReminder(c *gin.Context) {
	h.removeAt(c, h.JobService.RemoveReminder)
}

func (h *JobHandler) AddNote(c *gin.Context) { h.addText(c, h.JobService.AddNote) }

func (h *JobHandler) RemoveNote(c *gin.Context) {
	h.removeAt(c, h.JobService.RemoveNote)
}

// ImportJobs replaces the caller's collection with the posted document.
func (h *JobHandler) ImportJobs(c *gin.Context) {
	var req dtos.ImportRequest
	if !bindJSON(c, &req) {
		return
	}
	jobs, err := h.JobService.Import(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jobs)
}

func (h *JobHandler) ExportJobs(c *gin.Context) {
	doc, err := h.JobService.Export(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="jobs-export.json"`)
	c.JSON(http.StatusOK, doc)
}

type (
	textOp  func(ctx context.Context, ownerID, id, text string) (*models.Job, error)
	indexOp func(ctx context.Context, ownerID, id string, index int) (*models.Job, error)
)

func (h *JobHandler) addText(c *gin.Context, op textOp) {
	var req dtos.TextRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := dtos.Struct(&req); err != nil {
		respondError(c, err)
		return
	}
	h.respondJob(c)(op(c.Request.Context(), userID(c), c.Param("id"), req.Text))
}

func (h *JobHandler) removeAt(c *gin.Context, op indexOp) {
	index, err := indexParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondJob(c)(op(c.Request.Context(), userID(c), c.Param("id"), index))
}

// respondJob writes the updated record or the error.
func (h *JobHandler) respondJob(c *gin.Context) func(*models.Job, error) {
	return func(job *models.Job, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}
