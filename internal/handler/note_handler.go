package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"notes-service/internal/apperr"
	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/internal/policy"
	"notes-service/internal/store"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

// NoteHandler serves the note CRUD surface. For every operation it loads the
// minimal resource descriptor, asks the authorization policy for a decision,
// applies the quota policy on creation, and only then touches storage.
type NoteHandler struct {
	notes         *store.NoteStore
	freeNoteLimit int64
}

func NewNoteHandler(notes *store.NoteStore, freeNoteLimit int64) *NoteHandler {
	return &NoteHandler{notes: notes, freeNoteLimit: freeNoteLimit}
}

// Create inserts a new note for the caller's tenant. The quota check and the
// insert run in one transaction, so the free-plan cap is enforced even under
// concurrent creations. The plan is re-read from storage there; an upgrade
// takes effect immediately even for tokens issued before it.
func (h *NoteHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("create")

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	decision := policy.Evaluate(claims, policy.ActionCreateNote, policy.Resource{TenantID: claims.TenantID})
	if !decision.Allowed {
		prometheus.RecordPolicyDenial(string(decision.Reason))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "reason": decision.Reason})
	}

	note := model.Note{
		TenantID: claims.TenantID,
		UserID:   claims.Sub,
		Title:    req.Title,
		Content:  req.Content,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.notes.CreateWithQuota(c.Request().Context(), &note, h.freeNoteLimit); err != nil {
		if errors.Is(err, apperr.ErrQuotaExceeded) {
			prometheus.RecordQuotaDenial()
			log.Info("Note creation denied by quota",
				zap.Uint("tenant_id", claims.TenantID),
				zap.Int64("limit", h.freeNoteLimit))
			return c.JSON(http.StatusPaymentRequired, echo.Map{
				"error": apperr.ErrQuotaExceeded.Error(),
				"code":  apperr.CodeNoteLimitReached,
			})
		}
		log.Error("Failed to create note", zap.Error(err))
		return c.JSON(apperr.Status(err), echo.Map{"error": "note creation failed"})
	}

	log.Info("Note created",
		zap.Uint("note_id", note.ID),
		zap.Uint("tenant_id", note.TenantID),
		zap.Uint("user_id", note.UserID))

	return c.JSON(http.StatusCreated, note)
}

// List returns all notes of the caller's tenant.
func (h *NoteHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("list")

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	decision := policy.Evaluate(claims, policy.ActionListNotes, policy.Resource{TenantID: claims.TenantID})
	if !decision.Allowed {
		prometheus.RecordPolicyDenial(string(decision.Reason))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "reason": decision.Reason})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	notes, err := h.notes.List(c.Request().Context(), claims.TenantID)
	if err != nil {
		log.Error("Failed to list notes", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list notes"})
	}

	return c.JSON(http.StatusOK, echo.Map{"notes": notes})
}

// Get returns one note. The lookup is tenant-scoped, so a note belonging to
// another tenant yields the same 404 as a note that does not exist.
func (h *NoteHandler) Get(c echo.Context) error {
	prometheus.RecordNoteOperation("get")

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	note, err := h.loadNote(c, claims.TenantID)
	if note == nil {
		return err
	}

	decision := policy.Evaluate(claims, policy.ActionGetNote, policy.Resource{
		TenantID:    note.TenantID,
		OwnerUserID: note.UserID,
	})
	if !decision.Allowed {
		prometheus.RecordPolicyDenial(string(decision.Reason))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "reason": decision.Reason})
	}

	return c.JSON(http.StatusOK, note)
}

// Update rewrites a note's title and content. Members may only update their
// own notes; admins may update any note within their tenant.
func (h *NoteHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("update")

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	note, err := h.loadNote(c, claims.TenantID)
	if note == nil {
		return err
	}

	decision := policy.Evaluate(claims, policy.ActionUpdateNote, policy.Resource{
		TenantID:    note.TenantID,
		OwnerUserID: note.UserID,
	})
	if !decision.Allowed {
		prometheus.RecordPolicyDenial(string(decision.Reason))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "reason": decision.Reason})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.notes.Update(c.Request().Context(), note, req.Title, req.Content); err != nil {
		log.Error("Failed to update note", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "note update failed"})
	}

	log.Info("Note updated", zap.Uint("note_id", note.ID), zap.Uint("user_id", claims.Sub))
	return c.JSON(http.StatusOK, note)
}

// Delete removes a note under the same ownership rules as Update.
func (h *NoteHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("delete")

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	note, err := h.loadNote(c, claims.TenantID)
	if note == nil {
		return err
	}

	decision := policy.Evaluate(claims, policy.ActionDeleteNote, policy.Resource{
		TenantID:    note.TenantID,
		OwnerUserID: note.UserID,
	})
	if !decision.Allowed {
		prometheus.RecordPolicyDenial(string(decision.Reason))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "reason": decision.Reason})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.notes.Delete(c.Request().Context(), claims.TenantID, note.ID); err != nil {
		log.Error("Failed to delete note", zap.Error(err))
		return c.JSON(apperr.Status(err), echo.Map{"error": "note deletion failed"})
	}

	log.Info("Note deleted", zap.Uint("note_id", note.ID), zap.Uint("user_id", claims.Sub))
	return c.NoContent(http.StatusNoContent)
}

// loadNote parses the :id parameter and loads the note within the tenant
// scope. On failure it writes the response itself and returns a nil note;
// callers must stop and propagate the returned error value.
func (h *NoteHandler) loadNote(c echo.Context, tenantID uint) (*model.Note, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	note, err := h.notes.Get(c.Request().Context(), tenantID, uint(id))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		logger.FromContext(c).Error("Failed to load note", zap.Error(err))
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load note"})
	}
	return note, nil
}
