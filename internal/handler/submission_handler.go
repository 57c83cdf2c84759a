package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/eduhub/examcore/internal/middleware"
	"github.com/eduhub/examcore/internal/model"
	"github.com/eduhub/examcore/internal/response"
	"github.com/eduhub/examcore/internal/service"
	"github.com/eduhub/examcore/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubmissionService is the attempt lifecycle consumed by SubmissionHandler.
type SubmissionService interface {
	Start(ctx context.Context, examID uuid.UUID, p model.Principal) (*service.StartResult, error)
	SubmitAnswer(ctx context.Context, submissionID uuid.UUID, p model.Principal, req model.SubmitAnswerRequest) (*service.AnswerResult, error)
	Finish(ctx context.Context, submissionID uuid.UUID, p model.Principal) (*service.FinishResult, error)
	Get(ctx context.Context, submissionID uuid.UUID, p model.Principal) (*service.SubmissionView, error)
	GetLatestByExam(ctx context.Context, examID uuid.UUID, p model.Principal) (*service.SubmissionView, error)
	ListMine(ctx context.Context, p model.Principal, examID *uuid.UUID, status *model.SubmissionStatus) ([]service.SubmissionView, error)
	ListCompleted(ctx context.Context, p model.Principal, examID *uuid.UUID) (*service.CompletedTests, error)
	ListAll(ctx context.Context, f model.SubmissionFilter) (*service.SubmissionListing, error)
}

// SubmissionHandler handles exam attempt endpoints.
type SubmissionHandler struct {
	submissions SubmissionService
	log         zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissions SubmissionService, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		log:         log.With().Str("component", "submission_handler").Logger(),
	}
}

// StartExam godoc
// POST /api/v1/exam/:examId/start
// Creates an attempt (201) or resumes the open one (200).
func (h *SubmissionHandler) StartExam(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	res, err := h.submissions.Start(c.Request.Context(), examID, p)
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusCreated
	if res.Resumed {
		status = http.StatusOK
	}
	response.Success(c, status, res)
}

// SubmitAnswer godoc
// POST /api/v1/submission/:id/answer
func (h *SubmissionHandler) SubmitAnswer(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		code := response.ErrValidation
		if validator.HasTag(err, "selected_option", "option_letter") {
			code = response.ErrInvalidOption
		}
		response.FailWithFields(c, http.StatusBadRequest, code, validator.TranslateErrors(err))
		return
	}

	res, err := h.submissions.SubmitAnswer(c.Request.Context(), id, p, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// FinishExam godoc
// POST /api/v1/submission/:id/finish
func (h *SubmissionHandler) FinishExam(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	res, err := h.submissions.Finish(c.Request.Context(), id, p)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// GetSubmission godoc
// GET /api/v1/submission/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sub, err := h.submissions.Get(c.Request.Context(), id, p)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// GetLatestForExam godoc
// GET /api/v1/submission/exam/:examId
func (h *SubmissionHandler) GetLatestForExam(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sub, err := h.submissions.GetLatestByExam(c.Request.Context(), examID, p)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// ListMine godoc
// GET /api/v1/submission/my?exam_id=&status=
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, ok := optionalUUID(c, "exam_id")
	if !ok {
		return
	}
	status := optionalStatus(c)

	subs, err := h.submissions.ListMine(c.Request.Context(), p, examID, status)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submissions": subs, "count": len(subs)})
}

// ListCompleted godoc
// GET /api/v1/submission/my/completed?exam_id=
func (h *SubmissionHandler) ListCompleted(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, ok := optionalUUID(c, "exam_id")
	if !ok {
		return
	}

	out, err := h.submissions.ListCompleted(c.Request.Context(), p, examID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}

// ListAll godoc
// GET /api/v1/submission?exam_id=&student_id=&status=&sort_by=&sort_order=
// Teacher and Admin only.
func (h *SubmissionHandler) ListAll(c *gin.Context) {
	examID, ok := optionalUUID(c, "exam_id")
	if !ok {
		return
	}
	studentID, ok := optionalUUID(c, "student_id")
	if !ok {
		return
	}

	f := model.SubmissionFilter{
		ExamID:    examID,
		StudentID: studentID,
		Status:    optionalStatus(c),
		SortBy:    c.Query("sort_by"),
	}
	switch strings.ToLower(c.DefaultQuery("sort_order", "desc")) {
	case "asc":
		f.SortAsc = true
	case "desc":
	default:
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidFilter,
			map[string]string{"sort_order": "sort_order must be asc or desc"})
		return
	}

	out, err := h.submissions.ListAll(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}

// ─── helpers ────────────────────────────────────────────────────────────────

func optionalUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidID,
			map[string]string{key: key + " must be a valid UUID"})
		return nil, false
	}
	return &id, true
}

func optionalStatus(c *gin.Context) *model.SubmissionStatus {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	s := model.SubmissionStatus(raw)
	return &s
}

// errorCodes maps concrete service failures to response codes.
var errorCodes = []struct {
	err  error
	code response.ErrCode
}{
	{service.ErrExamNotFound, response.ErrExamNotFound},
	{service.ErrSubmissionNotFound, response.ErrSubmissionNotFound},
	{service.ErrExamNotPublic, response.ErrExamNotPublic},
	{service.ErrNotOwner, response.ErrNotSubmissionOwner},
	{service.ErrEmptyExam, response.ErrEmptyExam},
	{service.ErrInvalidOption, response.ErrInvalidOption},
	{service.ErrInvalidQuestionID, response.ErrInvalidID},
	{service.ErrQuestionNotInExam, response.ErrQuestionNotInExam},
	{service.ErrInvalidFilter, response.ErrInvalidFilter},
	{service.ErrEntryUnresolved, response.ErrEntryUnresolved},
	{service.ErrOptionsRequired, response.ErrOptionsRequired},
	{service.ErrSubmissionClosed, response.ErrSubmissionClosed},
	{service.ErrSnapshotMissing, response.ErrSnapshotMissing},
	{service.ErrTimeExpired, response.ErrTimeExpired},
	{service.ErrAttemptBusy, response.ErrAttemptInProgress},
}

// classify returns the HTTP status and code for a service error.
func classify(err error) (int, response.ErrCode) {
	code := response.ErrInternal
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			code = m.code
			break
		}
	}

	switch service.KindOf(err) {
	case service.KindNotFound:
		if code == response.ErrInternal {
			code = response.ErrNotFound
		}
		return http.StatusNotFound, code
	case service.KindForbidden:
		if code == response.ErrInternal {
			code = response.ErrForbidden
		}
		return http.StatusForbidden, code
	case service.KindInvalidInput, service.KindInvalidState, service.KindTimeExpired:
		if code == response.ErrInternal {
			code = response.ErrValidation
		}
		return http.StatusBadRequest, code
	case service.KindBusy:
		return http.StatusConflict, code
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

func (h *SubmissionHandler) fail(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	response.Fail(c, status, code)
}
