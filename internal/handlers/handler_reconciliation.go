package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	portssvc "github.com/SscSPs/bank_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation/internal/dto"
	"github.com/SscSPs/bank_reconciliation/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// multipartOverhead leaves room for the form fields around the file part.
const multipartOverhead = 1 << 20

// reconciliationHandler handles HTTP requests related to reconciliation sessions.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	maxUploadBytes        int64
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade, maxUploadBytes int64) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: rs,
		maxUploadBytes:        maxUploadBytes,
	}
}

// RegisterReconciliationRoutes registers the session routes under a group that carries :workplace_id.
// uploadMiddleware runs only in front of the upload route.
func RegisterReconciliationRoutes(rg *gin.RouterGroup, rs portssvc.ReconciliationSvcFacade, maxUploadBytes int64, uploadMiddleware ...gin.HandlerFunc) {
	h := newReconciliationHandler(rs, maxUploadBytes)

	recon := rg.Group("/reconciliations")
	{
		recon.POST("", append(uploadMiddleware, h.uploadStatement)...)
		recon.GET("", h.listSessions)
		recon.GET("/:session_id", h.getSession)
		recon.DELETE("/:session_id", h.deleteSession)
		recon.GET("/:session_id/suggestions", h.getSuggestions)
		recon.POST("/:session_id/auto-match", h.autoMatch)
		recon.POST("/:session_id/matches", h.createMatch)
		recon.DELETE("/:session_id/matches/:match_id", h.deleteMatch)
		recon.DELETE("/:session_id/entries/:entry_id/match", h.deleteEntryMatch)
		recon.POST("/:session_id/complete", h.completeSession)
		recon.GET("/:session_id/report", h.getReport)
	}
}

// requestContext pulls the logger and the authenticated user. It writes 401 and returns false when there is no user.
func requestContext(c *gin.Context) (*slog.Logger, string, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return logger, "", false
	}
	return logger.With(slog.String("workplace_id", c.Param("workplace_id"))), userID, true
}

// respondWithError maps service errors onto HTTP statuses.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn(action+": session state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnsupportedFormat),
		errors.Is(err, apperrors.ErrEmptyOrUnparseable):
		logger.Warn(action+": invalid request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn(action+": forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(action+": not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn(action+": conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(action+": failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + strings.ToLower(action)})
	}
}

// uploadStatement godoc
// @Summary Upload a bank statement
// @Description Parses a CSV or OFX/QFX statement and opens a reconciliation session for it
// @Tags reconciliations
// @Accept multipart/form-data
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param file formData file true "Statement file (.csv, .ofx, .qfx)"
// @Param accountID formData string true "Ledger account being reconciled"
// @Param statementDate formData string true "Statement date (YYYY-MM-DD)"
// @Param openingBalance formData string true "Opening balance"
// @Param closingBalance formData string false "Closing balance (OFX ledger balance when omitted)"
// @Param autoMatch formData bool false "Run auto-matching after parsing"
// @Param dateLocale formData string false "Day/month order hint" Enums(US, EU)
// @Success 201 {object} dto.UploadStatementResponse
// @Failure 400 {object} map[string]string "Invalid form or unreadable statement"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Statement already uploaded"
// @Failure 413 {object} map[string]string "Statement too large"
// @Failure 429 {object} map[string]string "Too many uploads"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations [post]
func (h *reconciliationHandler) uploadStatement(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	workplaceID := c.Param("workplace_id")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	var form dto.UploadStatementForm
	if err := c.ShouldBind(&form); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Statement file too large"})
			return
		}
		logger.Warn("Failed to bind upload form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Statement file missing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statement file is required in form part 'file'"})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		logger.Warn("Statement file too large", slog.Int64("size", fileHeader.Size), slog.Int64("max", h.maxUploadBytes))
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("Statement file exceeds %d bytes", h.maxUploadBytes)})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, logger, err, "Read statement")
		return
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		respondWithError(c, logger, err, "Read statement")
		return
	}

	req, err := toUploadStatementRequest(form, fileHeader.Filename, content)
	if err != nil {
		logger.Warn("Invalid upload form values", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.reconciliationService.UploadStatement(c.Request.Context(), workplaceID, userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Upload statement")
		return
	}

	logger.Info("Statement uploaded",
		slog.String("session_id", result.Session.SessionID),
		slog.Int("entries", len(result.Session.Entries)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("auto_matched", result.AutoMatched))
	c.JSON(http.StatusCreated, dto.ToUploadStatementResponse(result))
}

func toUploadStatementRequest(form dto.UploadStatementForm, filename string, content []byte) (dto.UploadStatementRequest, error) {
	statementDate, err := time.Parse(dto.DateLayout, strings.TrimSpace(form.StatementDate))
	if err != nil {
		return dto.UploadStatementRequest{}, errors.New("statementDate must be YYYY-MM-DD")
	}
	opening, err := decimal.NewFromString(strings.TrimSpace(form.OpeningBalance))
	if err != nil {
		return dto.UploadStatementRequest{}, errors.New("openingBalance is not a number")
	}
	req := dto.UploadStatementRequest{
		AccountID:      form.AccountID,
		Filename:       filename,
		Content:        content,
		StatementDate:  statementDate,
		OpeningBalance: opening,
		AutoMatch:      form.AutoMatch,
		DateLocale:     strings.ToUpper(form.DateLocale),
	}
	if raw := strings.TrimSpace(form.ClosingBalance); raw != "" {
		closing, err := decimal.NewFromString(raw)
		if err != nil {
			return dto.UploadStatementRequest{}, errors.New("closingBalance is not a number")
		}
		req.ClosingBalance = &closing
	}
	return req, nil
}

// listSessions godoc
// @Summary List reconciliation sessions
// @Description Lists sessions of a workplace, newest first, with token pagination
// @Tags reconciliations
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param accountID query string false "Filter by account"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListSessionsResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations [get]
func (h *reconciliationHandler) listSessions(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}

	var params dto.ListSessionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind list query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	sessions, next, err := h.reconciliationService.ListSessions(c.Request.Context(), c.Param("workplace_id"), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "List sessions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListSessionsResponse(sessions, next))
}

// getSession godoc
// @Summary Get a reconciliation session
// @Description Returns a session with its entries, matches and counts
// @Tags reconciliations
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations/{session_id} [get]
func (h *reconciliationHandler) getSession(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}

	session, err := h.reconciliationService.GetSession(c.Request.Context(), c.Param("workplace_id"), c.Param("session_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Get session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// getSuggestions godoc
// @Summary Suggest matches
// @Description Ranks ledger candidates for every unmatched entry without changing the session
// @Tags reconciliations
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SuggestionsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations/{session_id}/suggestions [get]
func (h *reconciliationHandler) getSuggestions(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	sessionID := c.Param("session_id")

	decisions, err := h.reconciliationService.GetSuggestions(c.Request.Context(), c.Param("workplace_id"), sessionID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Get suggestions")
		return
	}
	c.JSON(http.StatusOK, dto.ToSuggestionsResponse(sessionID, decisions))
}

// autoMatch godoc
// @Summary Auto-match a session
// @Description Confirms every unambiguous pairing scoring at or above the threshold
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param session_id path string true "Session ID"
// @Param request body dto.AutoMatchRequest false "Optional threshold override"
// @Success 200 {object} dto.AutoMatchResponse
// @Failure 400 {object} map[string]string "Invalid threshold"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session completed or modified concurrently"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations/{session_id}/auto-match [post]
func (h *reconciliationHandler) autoMatch(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}

	var req dto.AutoMatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind auto-match request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	session, matches, err := h.reconciliationService.AutoMatch(c.Request.Context(), c.Param("workplace_id"), c.Param("session_id"), userID, req.Threshold)
	if err != nil {
		respondWithError(c, logger, err, "Auto-match session")
		return
	}

	logger.Info("Auto-match finished", slog.String("session_id", session.SessionID), slog.Int("matched", len(matches)))
	c.JSON(http.StatusOK, dto.AutoMatchResponse{
		AutoMatched: len(matches),
		Matches:     dto.ToMatchResponses(matches),
		Session:     dto.ToSessionResponse(session),
	})
}

// createMatch godoc
// @Summary Match a bank entry
// @Description Pairs a bank entry with a ledger transaction, or acknowledges it as bank-only when transactionID is omitted
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param session_id path string true "Session ID"
// @Param request body dto.CreateMatchRequest true "Pairing"
// @Success 201 {object} dto.MatchResponse
// @Failure 400 {object} map[string]string "Invalid pairing"
// @Failure 404 {object} map[string]string "Session, entry or transaction not found"
// @Failure 409 {object} map[string]string "Already matched"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations/{session_id}/matches [post]
func (h *reconciliationHandler) createMatch(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}

	var req dto.CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind match request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	workplaceID, sessionID := c.Param("workplace_id"), c.Param("session_id")
	var (
		match *domain.Match
		err   error
	)
	if req.TransactionID == nil || *req.TransactionID == "" {
		match, err = h.reconciliationService.MatchBankOnly(ctx, workplaceID, sessionID, userID, req.BankEntryID)
	} else {
		match, err = h.reconciliationService.Match(ctx, workplaceID, sessionID, userID, req.BankEntryID, *req.TransactionID)
	}
	if err != nil {
		respondWithError(c, logger, err, "Match entry")
		return
	}

	logger.Info("Bank entry matched", slog.String("session_id", sessionID), slog.String("match_id", match.MatchID))
	c.JSON(http.StatusCreated, dto.ToMatchResponse(*match))
}

// deleteMatch godoc
// @Summary Remove a match
// @Description Removes a match and releases its ledger transaction
// @Tags reconciliations
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param session_id path string true "Session ID"
// @Param match_id path string true "Match ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} map[string]string "Session or match not found"
// @Failure 409 {object} map[string]string "Session completed or modified concurrently"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations/{session_id}/matches/{match_id} [delete]
func (h *reconciliationHandler) deleteMatch(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}

	session, err := h.reconciliationService.Unmatch(c.Request.Context(), c.Param("workplace_id"), c.Param("session_id"), userID, c.Param("match_id"))
	if err != nil {
		respondWithError(c, logger, err, "Unmatch")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// deleteEntryMatch godoc
// @Summary Remove the match of a bank entry
// @Tags reconciliations
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param session_id path string true "Session ID"
// @Param entry_id path string true "Bank entry ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} map[string]string "Session not found or entry not matched"
// @Failure 409 {object} map[string]string "Session completed or modified concurrently"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations/{session_id}/entries/{entry_id}/match [delete]
func (h *reconciliationHandler) deleteEntryMatch(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}

	session, err := h.reconciliationService.UnmatchEntry(c.Request.Context(), c.Param("workplace_id"), c.Param("session_id"), userID, c.Param("entry_id"))
	if err != nil {
		respondWithError(c, logger, err, "Unmatch entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// completeSession godoc
// @Summary Complete a session
// @Description Freezes the session and returns its final report
// @Tags reconciliations
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param session_id path string true "Session ID"
// @Success 200 {object} domain.ReconciliationReport
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session already completed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations/{session_id}/complete [post]
func (h *reconciliationHandler) completeSession(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}

	report, err := h.reconciliationService.CompleteSession(c.Request.Context(), c.Param("workplace_id"), c.Param("session_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Complete session")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getReport godoc
// @Summary Reconciliation report
// @Tags reconciliations
// @Produce json
// @Param workplace_id path string true "Workplace ID"
// @Param session_id path string true "Session ID"
// @Success 200 {object} domain.ReconciliationReport
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations/{session_id}/report [get]
func (h *reconciliationHandler) getReport(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}

	report, err := h.reconciliationService.GetReport(c.Request.Context(), c.Param("workplace_id"), c.Param("session_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Get report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// deleteSession godoc
// @Summary Delete a session
// @Description Discards an in-progress session and releases every transaction it matched
// @Tags reconciliations
// @Param workplace_id path string true "Workplace ID"
// @Param session_id path string true "Session ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session already completed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/reconciliations/{session_id} [delete]
func (h *reconciliationHandler) deleteSession(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if err := h.reconciliationService.DeleteSession(c.Request.Context(), c.Param("workplace_id"), sessionID, userID); err != nil {
		respondWithError(c, logger, err, "Delete session")
		return
	}
	logger.Info("Session deleted", slog.String("session_id", sessionID))
	c.Status(http.StatusNoContent)
}
