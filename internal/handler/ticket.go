package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oms-support/ticketdesk/internal/errs"
	"github.com/oms-support/ticketdesk/internal/listing"
	"github.com/oms-support/ticketdesk/internal/model"
	"github.com/oms-support/ticketdesk/internal/service"
	"github.com/oms-support/ticketdesk/internal/storage"
	"golang.org/x/sync/errgroup"
)

const (
	maxUploadFiles = 10
	maxUploadSize  = 50 << 20 // 50MB per file
)

// allowedExtensions for response/solution uploads. Form attachments accept
// anything within the size and count limits.
var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true,
	".jpg": true, ".jpeg": true, ".png": true,
	".xls": true, ".xlsx": true, ".csv": true,
	".zip": true, ".rar": true,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
}

type TicketHandler struct {
	svc   *service.TicketService
	dash  *service.Dashboard
	store storage.Backend
}

func NewTicketHandler(svc *service.TicketService, dash *service.Dashboard, store storage.Backend) *TicketHandler {
	return &TicketHandler{svc: svc, dash: dash, store: store}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrTicketNotFound),
		errors.Is(err, errs.ErrAccepterNotFound),
		errors.Is(err, errs.ErrNoResponse),
		errors.Is(err, errs.ErrNoSolution):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrNotCreator):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidStatus),
		errors.Is(err, errs.ErrInvalidPriority),
		errors.Is(err, errs.ErrUnknownOperator),
		errors.Is(err, errs.ErrAccepterRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error, op string) {
	log.Printf("handler: %s: %v", op, err)
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "failed to " + op
	}
	c.JSON(code, gin.H{"error": msg})
}

// uploadBatch stores every part concurrently and joins all-or-nothing: one
// failure aborts the submission. Files already stored from the failed batch
// are left behind (no cleanup pass).
func (h *TicketHandler) uploadBatch(ctx context.Context, area storage.Area, parts []*multipart.FileHeader, namedKeys bool) ([]string, error) {
	urls := make([]string, len(parts))
	g, ctx := errgroup.WithContext(ctx)
	for i, fh := range parts {
		g.Go(func() error {
			src, err := fh.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", fh.Filename, err)
			}
			defer src.Close()
			key := storage.NewKey(fh.Filename)
			if namedKeys {
				key = storage.NewNamedKey(fh.Filename)
			}
			url, err := h.store.Store(ctx, area, key, src)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func validateParts(parts []*multipart.FileHeader, already int, checkExt bool) error {
	if already+len(parts) > maxUploadFiles {
		return fmt.Errorf("maximum %d files allowed", maxUploadFiles)
	}
	for _, fh := range parts {
		if fh.Size > maxUploadSize {
			return fmt.Errorf("file %q exceeds the 50MB limit", fh.Filename)
		}
		if checkExt && !allowedExtensions[strings.ToLower(path.Ext(fh.Filename))] {
			return fmt.Errorf("file %q is not a supported file type", fh.Filename)
		}
	}
	return nil
}

// Create handles the public submission form: multipart fields plus up to ten
// attachments. Everything is validated before any write happens.
func (h *TicketHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	required := []string{
		"operator", "issue", "issue_description", "kpis_affected",
		"counter_evaluation", "optimization_actions", "priority",
		"start_time", "creator", "phone_number",
	}
	for _, field := range required {
		if c.PostForm(field) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": field + " is required"})
			return
		}
	}
	startTime, err := parseTime(c.PostForm("start_time"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time"})
		return
	}
	// Reject bad submissions before any attachment lands in storage.
	if _, ok := model.CountryFor(c.PostForm("operator")); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrUnknownOperator.Error()})
		return
	}
	if !model.ValidPriority(model.Priority(c.PostForm("priority"))) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrInvalidPriority.Error()})
		return
	}
	parts := form.File["files"]
	if err := validateParts(parts, 0, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var attachments []string
	if len(parts) > 0 {
		attachments, err = h.uploadBatch(c.Request.Context(), storage.AreaFormAttachments, parts, false)
		if err != nil {
			fail(c, err, "upload attachments")
			return
		}
	}

	ticket := &model.Ticket{
		Operator:            c.PostForm("operator"),
		Issue:               c.PostForm("issue"),
		IssueDescription:    c.PostForm("issue_description"),
		KPIsAffected:        c.PostForm("kpis_affected"),
		CounterEvaluation:   c.PostForm("counter_evaluation"),
		OptimizationActions: c.PostForm("optimization_actions"),
		Priority:            model.Priority(c.PostForm("priority")),
		StartTime:           startTime,
		Creator:             c.PostForm("creator"),
		PhoneNumber:         c.PostForm("phone_number"),
		Attachments:         attachments,
	}
	if err := h.svc.Create(c.Request.Context(), ticket); err != nil {
		fail(c, err, "create ticket")
		return
	}
	h.dash.Invalidate()
	c.JSON(http.StatusCreated, ticket)
}

// List returns a submitter's tickets in store order (newest first).
func (h *TicketHandler) List(c *gin.Context) {
	creator := c.Query("creator")
	if creator == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creator is required"})
		return
	}
	items, err := h.svc.ListByCreator(c.Request.Context(), creator)
	if err != nil {
		fail(c, err, "list tickets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": items, "total": len(items)})
}

func (h *TicketHandler) Get(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "get ticket")
		return
	}
	c.JSON(http.StatusOK, t)
}

// Dashboard serves the admin review list: filtered, sorted and paginated in
// memory, with the aggregate stat counts.
func (h *TicketHandler) Dashboard(c *gin.Context) {
	var criteria listing.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter criteria"})
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	refresh := c.Query("refresh") == "true"

	pg, counts, err := h.dash.Snapshot(c.Request.Context(), criteria, page, refresh)
	if err != nil {
		fail(c, err, "load dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": pg, "counts": counts})
}

type updateStatusRequest struct {
	Status model.Status `json:"status" binding:"required"`
}

func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		fail(c, err, "update status")
		return
	}
	h.patchDashboard(t)
	c.JSON(http.StatusOK, t)
}

type assignAccepterRequest struct {
	AccepterID string `json:"accepter_id" binding:"required"`
}

func (h *TicketHandler) AssignAccepter(c *gin.Context) {
	var req assignAccepterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := h.svc.AssignAccepter(c.Request.Context(), c.Param("id"), req.AccepterID)
	if err != nil {
		fail(c, err, "assign accepter")
		return
	}
	h.patchDashboard(t)
	c.JSON(http.StatusOK, t)
}

type withdrawRequest struct {
	Creator string `json:"creator" binding:"required"`
}

func (h *TicketHandler) Withdraw(c *gin.Context) {
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := h.svc.Withdraw(c.Request.Context(), c.Param("id"), req.Creator)
	if err != nil {
		fail(c, err, "withdraw ticket")
		return
	}
	h.patchDashboard(t)
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err, "delete ticket")
		return
	}
	h.dash.Remove(id)
	c.Status(http.StatusNoContent)
}

// SaveResponse upserts the progress response. Multipart: a required "text"
// field, repeated "images"/"files" fields carrying URLs to keep, and any
// number of "uploads" parts that are stored and routed by kind.
func (h *TicketHandler) SaveResponse(c *gin.Context) {
	h.saveCollab(c, storage.AreaResponseImages, storage.AreaResponseFiles, h.svc.SaveResponse)
}

// SaveSolution upserts the final resolution record.
func (h *TicketHandler) SaveSolution(c *gin.Context) {
	h.saveCollab(c, storage.AreaSolutionImages, storage.AreaSolutionFiles, h.svc.SaveSolution)
}

func (h *TicketHandler) saveCollab(
	c *gin.Context,
	imageArea, fileArea storage.Area,
	save func(context.Context, string, string, []string, []string) (*model.Ticket, error),
) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	text := c.PostForm("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	images := form.Value["images"]
	files := form.Value["files"]
	uploads := form.File["uploads"]
	if err := validateParts(uploads, len(images)+len(files), true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var imageParts, fileParts []*multipart.FileHeader
	for _, fh := range uploads {
		if imageExtensions[strings.ToLower(path.Ext(fh.Filename))] {
			imageParts = append(imageParts, fh)
		} else {
			fileParts = append(fileParts, fh)
		}
	}
	if len(imageParts) > 0 {
		urls, err := h.uploadBatch(c.Request.Context(), imageArea, imageParts, true)
		if err != nil {
			fail(c, err, "upload images")
			return
		}
		images = append(images, urls...)
	}
	if len(fileParts) > 0 {
		urls, err := h.uploadBatch(c.Request.Context(), fileArea, fileParts, true)
		if err != nil {
			fail(c, err, "upload files")
			return
		}
		files = append(files, urls...)
	}

	t, err := save(c.Request.Context(), c.Param("id"), text, images, files)
	if err != nil {
		fail(c, err, "save content")
		return
	}
	h.patchDashboard(t)
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) DeleteResponse(c *gin.Context) {
	t, err := h.svc.DeleteResponse(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "delete response")
		return
	}
	h.patchDashboard(t)
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) DeleteSolution(c *gin.Context) {
	t, err := h.svc.DeleteSolution(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "delete solution")
		return
	}
	h.patchDashboard(t)
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) MarkResponseRead(c *gin.Context) {
	h.markRead(c, h.svc.MarkResponseRead, func(t *model.Ticket) { t.ResponseRead = true })
}

func (h *TicketHandler) MarkSolutionRead(c *gin.Context) {
	h.markRead(c, h.svc.MarkSolutionRead, func(t *model.Ticket) { t.SolutionRead = true })
}

func (h *TicketHandler) markRead(c *gin.Context, mark func(context.Context, string) error, patch func(*model.Ticket)) {
	id := c.Param("id")
	if err := mark(c.Request.Context(), id); err != nil {
		fail(c, err, "mark read")
		return
	}
	h.dash.Patch(id, patch)
	c.Status(http.StatusNoContent)
}

// patchDashboard pushes the updated entity into the cached admin view in
// place, keeping the row where the reviewer last saw it.
func (h *TicketHandler) patchDashboard(t *model.Ticket) {
	updated := *t
	h.dash.Patch(t.ID, func(dst *model.Ticket) { *dst = updated })
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
