package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/core/matching"
	portssvc "github.com/SscSPs/bank_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation/internal/core/statement"
	"github.com/SscSPs/bank_reconciliation/internal/dto"
	"github.com/SscSPs/bank_reconciliation/internal/handlers"
	"github.com/SscSPs/bank_reconciliation/internal/middleware"
	"github.com/SscSPs/bank_reconciliation/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) GetSession(ctx context.Context, workplaceID, sessionID, userID string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, workplaceID, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationService) ListSessions(ctx context.Context, workplaceID, userID string, params dto.ListSessionsParams) ([]domain.ReconciliationSession, *string, error) {
	args := m.Called(ctx, workplaceID, userID, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.ReconciliationSession), next, args.Error(2)
}

func (m *MockReconciliationService) GetSuggestions(ctx context.Context, workplaceID, sessionID, userID string) ([]matching.Decision, error) {
	args := m.Called(ctx, workplaceID, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]matching.Decision), args.Error(1)
}

func (m *MockReconciliationService) GetReport(ctx context.Context, workplaceID, sessionID, userID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, workplaceID, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

func (m *MockReconciliationService) UploadStatement(ctx context.Context, workplaceID, userID string, req dto.UploadStatementRequest) (*dto.UploadStatementResult, error) {
	args := m.Called(ctx, workplaceID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadStatementResult), args.Error(1)
}

func (m *MockReconciliationService) CreateSession(ctx context.Context, workplaceID, userID string, req dto.CreateSessionRequest) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, workplaceID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationService) AutoMatch(ctx context.Context, workplaceID, sessionID, userID string, threshold *float64) (*domain.ReconciliationSession, []domain.Match, error) {
	args := m.Called(ctx, workplaceID, sessionID, userID, threshold)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Get(1).([]domain.Match), args.Error(2)
}

func (m *MockReconciliationService) Match(ctx context.Context, workplaceID, sessionID, userID, bankEntryID, transactionID string) (*domain.Match, error) {
	args := m.Called(ctx, workplaceID, sessionID, userID, bankEntryID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Match), args.Error(1)
}

func (m *MockReconciliationService) MatchBankOnly(ctx context.Context, workplaceID, sessionID, userID, bankEntryID string) (*domain.Match, error) {
	args := m.Called(ctx, workplaceID, sessionID, userID, bankEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Match), args.Error(1)
}

func (m *MockReconciliationService) Unmatch(ctx context.Context, workplaceID, sessionID, userID, matchID string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, workplaceID, sessionID, userID, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationService) UnmatchEntry(ctx context.Context, workplaceID, sessionID, userID, bankEntryID string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, workplaceID, sessionID, userID, bankEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationService) CompleteSession(ctx context.Context, workplaceID, sessionID, userID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, workplaceID, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

func (m *MockReconciliationService) DeleteSession(ctx context.Context, workplaceID, sessionID, userID string) error {
	args := m.Called(ctx, workplaceID, sessionID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

const (
	testUserID      = "user-1"
	testWorkplaceID = "wp-1"
	testSessionID   = "sess-1"
	maxUploadBytes  = 256
	basePath        = "/api/v1/workplaces/" + testWorkplaceID + "/reconciliations"
)

// --- Test Suite ---
type ReconciliationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockReconciliationService
	jwtSecret   string
}

func (suite *ReconciliationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockService = new(MockReconciliationService)
	v1 := suite.router.Group("/api/v1/workplaces/:workplace_id")
	handlers.RegisterReconciliationRoutes(v1, suite.mockService, maxUploadBytes)
}

func (suite *ReconciliationHandlerTestSuite) TearDownTest() {
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) token() string {
	token, err := utils.GenerateJWT(testUserID, suite.jwtSecret, time.Hour, "recon-test")
	suite.Require().NoError(err)
	return token
}

func (suite *ReconciliationHandlerTestSuite) do(method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, path, body)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+suite.token())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ReconciliationHandlerTestSuite) doJSON(method, path string, payload any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(payload)
	suite.Require().NoError(err)
	return suite.do(method, path, bytes.NewBuffer(raw), "application/json")
}

func multipartBody(fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	if filename != "" {
		part, _ := writer.CreateFormFile("file", filename)
		_, _ = part.Write([]byte(content))
	}
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func sampleSession() *domain.ReconciliationSession {
	entries := []domain.BankEntry{
		{EntryID: "e-1", Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), Description: "Amazon", Amount: decimal.RequireFromString("-42.10"), Line: 2},
		{EntryID: "e-2", Date: time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), Description: "Payroll", Amount: decimal.RequireFromString("1500.00"), Line: 3},
	}
	s, _ := domain.NewReconciliationSession(testSessionID, testWorkplaceID, "acc-1",
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), decimal.Zero, decimal.RequireFromString("1457.90"),
		entries, testUserID, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC))
	return s
}

const statementCSV = "Date,Description,Amount\n2025-01-15,Amazon,-42.10\n2025-01-16,Payroll,1500.00\n"

func (suite *ReconciliationHandlerTestSuite) TestUploadStatement_Success() {
	session := sampleSession()
	result := &dto.UploadStatementResult{
		Session:     session,
		Skipped:     []statement.SkippedRow{{Line: 4, Reason: "unparseable date", Raw: "x,y,z"}},
		AutoMatched: 0,
	}
	suite.mockService.On("UploadStatement", mock.Anything, testWorkplaceID, testUserID,
		mock.MatchedBy(func(req dto.UploadStatementRequest) bool {
			return req.AccountID == "acc-1" &&
				req.Filename == "jan.csv" &&
				string(req.Content) == statementCSV &&
				req.OpeningBalance.IsZero() &&
				req.ClosingBalance != nil && req.ClosingBalance.Equal(decimal.RequireFromString("1457.90")) &&
				req.AutoMatch &&
				req.DateLocale == "EU" &&
				req.StatementDate.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
		})).Return(result, nil).Once()

	body, contentType := multipartBody(map[string]string{
		"accountID":      "acc-1",
		"statementDate":  "2025-01-31",
		"openingBalance": "0",
		"closingBalance": "1457.90",
		"autoMatch":      "true",
		"dateLocale":     "eu",
	}, "jan.csv", statementCSV)
	w := suite.do(http.MethodPost, basePath, body, contentType)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.UploadStatementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.EntriesParsed)
	suite.Equal(1, resp.EntriesSkipped)
	suite.Equal(testSessionID, resp.Session.SessionID)
	suite.Len(resp.Session.Entries, 2)
	suite.Equal("2025-01-15", resp.Session.Entries[0].Date)
}

func (suite *ReconciliationHandlerTestSuite) TestUploadStatement_FormErrors() {
	valid := map[string]string{"accountID": "acc-1", "statementDate": "2025-01-31", "openingBalance": "0"}
	with := func(key, value string) map[string]string {
		fields := map[string]string{}
		for k, v := range valid {
			fields[k] = v
		}
		if value == "" {
			delete(fields, key)
		} else {
			fields[key] = value
		}
		return fields
	}

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		wantCode int
	}{
		{"missing file", valid, "", http.StatusBadRequest},
		{"missing account", with("accountID", ""), "jan.csv", http.StatusBadRequest},
		{"bad statement date", with("statementDate", "31/01/2025"), "jan.csv", http.StatusBadRequest},
		{"bad opening balance", with("openingBalance", "lots"), "jan.csv", http.StatusBadRequest},
		{"bad closing balance", with("closingBalance", "1,2,3"), "jan.csv", http.StatusBadRequest},
		{"unknown locale", with("dateLocale", "ISO"), "jan.csv", http.StatusBadRequest},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			body, contentType := multipartBody(tt.fields, tt.filename, statementCSV)
			w := suite.do(http.MethodPost, basePath, body, contentType)
			suite.Equal(tt.wantCode, w.Code, w.Body.String())
		})
	}
	suite.mockService.AssertNotCalled(suite.T(), "UploadStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationHandlerTestSuite) TestUploadStatement_TooLarge() {
	body, contentType := multipartBody(map[string]string{
		"accountID": "acc-1", "statementDate": "2025-01-31", "openingBalance": "0",
	}, "big.csv", strings.Repeat("2025-01-15,Coffee,-1.00\n", 20))
	w := suite.do(http.MethodPost, basePath, body, contentType)
	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestUploadStatement_ServiceErrors() {
	tests := []struct {
		err      error
		wantCode int
	}{
		{fmt.Errorf("%w: .pdf", apperrors.ErrUnsupportedFormat), http.StatusBadRequest},
		{fmt.Errorf("%w: no rows", apperrors.ErrEmptyOrUnparseable), http.StatusBadRequest},
		{fmt.Errorf("%w: statement already uploaded", apperrors.ErrDuplicate), http.StatusConflict},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.err.Error(), func() {
			suite.mockService.On("UploadStatement", mock.Anything, testWorkplaceID, testUserID, mock.Anything).Return(nil, tt.err).Once()
			body, contentType := multipartBody(map[string]string{
				"accountID": "acc-1", "statementDate": "2025-01-31", "openingBalance": "0",
			}, "jan.csv", statementCSV)
			w := suite.do(http.MethodPost, basePath, body, contentType)
			suite.Equal(tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func (suite *ReconciliationHandlerTestSuite) TestRequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, basePath+"/"+testSessionID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestGetSession() {
	suite.mockService.On("GetSession", mock.Anything, testWorkplaceID, testSessionID, testUserID).Return(sampleSession(), nil).Once()
	suite.mockService.On("GetSession", mock.Anything, testWorkplaceID, "missing", testUserID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, basePath+"/"+testSessionID, nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SessionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.TotalEntries)
	suite.Equal(2, resp.UnmatchedCount)

	w = suite.do(http.MethodGet, basePath+"/missing", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestListSessions() {
	next := "token-2"
	suite.mockService.On("ListSessions", mock.Anything, testWorkplaceID, testUserID,
		mock.MatchedBy(func(p dto.ListSessionsParams) bool {
			return p.Limit == 20 && p.AccountID != nil && *p.AccountID == "acc-1"
		})).Return([]domain.ReconciliationSession{*sampleSession()}, &next, nil).Once()

	w := suite.do(http.MethodGet, basePath+"?accountID=acc-1", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListSessionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Sessions, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)

	w = suite.do(http.MethodGet, basePath+"?limit=500", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestCreateMatch() {
	txnID := "t-1"
	match := &domain.Match{MatchID: "m-1", SessionID: testSessionID, BankEntryID: "e-1", TransactionID: &txnID, Confidence: 0.9, MatchType: domain.MatchManual}
	suite.mockService.On("Match", mock.Anything, testWorkplaceID, testSessionID, testUserID, "e-1", "t-1").Return(match, nil).Once()

	w := suite.doJSON(http.MethodPost, basePath+"/"+testSessionID+"/matches", dto.CreateMatchRequest{BankEntryID: "e-1", TransactionID: &txnID})
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.MatchResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("m-1", resp.MatchID)
	suite.Equal(domain.MatchManual, resp.MatchType)
}

func (suite *ReconciliationHandlerTestSuite) TestCreateMatch_BankOnly() {
	match := &domain.Match{MatchID: "m-2", SessionID: testSessionID, BankEntryID: "e-2", MatchType: domain.MatchManual}
	suite.mockService.On("MatchBankOnly", mock.Anything, testWorkplaceID, testSessionID, testUserID, "e-2").Return(match, nil).Once()

	w := suite.doJSON(http.MethodPost, basePath+"/"+testSessionID+"/matches", map[string]string{"bankEntryID": "e-2"})
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.NotContains(w.Body.String(), "transactionID")
}

func (suite *ReconciliationHandlerTestSuite) TestCreateMatch_Errors() {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"already matched", fmt.Errorf("%w: transaction t-1", apperrors.ErrAlreadyMatched), http.StatusConflict},
		{"completed session", fmt.Errorf("%w: session sess-1 is COMPLETED", apperrors.ErrInvalidState), http.StatusConflict},
		{"foreign transaction", fmt.Errorf("%w: transaction belongs to another account", apperrors.ErrValidation), http.StatusBadRequest},
		{"unknown entry", fmt.Errorf("%w: bank entry e-9", apperrors.ErrNotFound), http.StatusNotFound},
	}
	txnID := "t-1"
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockService.On("Match", mock.Anything, testWorkplaceID, testSessionID, testUserID, "e-1", "t-1").Return(nil, tt.err).Once()
			w := suite.doJSON(http.MethodPost, basePath+"/"+testSessionID+"/matches", dto.CreateMatchRequest{BankEntryID: "e-1", TransactionID: &txnID})
			suite.Equal(tt.wantCode, w.Code, w.Body.String())
		})
	}

	w := suite.doJSON(http.MethodPost, basePath+"/"+testSessionID+"/matches", map[string]string{"transactionID": "t-1"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestUnmatch() {
	session := sampleSession()
	suite.mockService.On("Unmatch", mock.Anything, testWorkplaceID, testSessionID, testUserID, "m-1").Return(session, nil).Once()
	suite.mockService.On("UnmatchEntry", mock.Anything, testWorkplaceID, testSessionID, testUserID, "e-1").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodDelete, basePath+"/"+testSessionID+"/matches/m-1", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodDelete, basePath+"/"+testSessionID+"/entries/e-1/match", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestAutoMatch() {
	session := sampleSession()
	txnID := "t-1"
	matches := []domain.Match{{MatchID: "m-1", BankEntryID: "e-1", TransactionID: &txnID, Confidence: 0.95, MatchType: domain.MatchAuto}}
	suite.mockService.On("AutoMatch", mock.Anything, testWorkplaceID, testSessionID, testUserID,
		mock.MatchedBy(func(th *float64) bool { return th != nil && *th == 0.9 })).Return(session, matches, nil).Once()
	suite.mockService.On("AutoMatch", mock.Anything, testWorkplaceID, testSessionID, testUserID,
		mock.MatchedBy(func(th *float64) bool { return th == nil })).Return(session, []domain.Match{}, nil).Once()

	w := suite.doJSON(http.MethodPost, basePath+"/"+testSessionID+"/auto-match", map[string]float64{"threshold": 0.9})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.AutoMatchResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.AutoMatched)

	w = suite.do(http.MethodPost, basePath+"/"+testSessionID+"/auto-match", nil, "")
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.doJSON(http.MethodPost, basePath+"/"+testSessionID+"/auto-match", map[string]float64{"threshold": 1.5})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestGetSuggestions() {
	session := sampleSession()
	decisions := []matching.Decision{
		{Kind: matching.DecisionNoMatch, Entry: session.Entries[1], Candidates: []matching.MatchCandidate{}, BankOnly: true, Reason: "no candidates"},
	}
	suite.mockService.On("GetSuggestions", mock.Anything, testWorkplaceID, testSessionID, testUserID).Return(decisions, nil).Once()

	w := suite.do(http.MethodGet, basePath+"/"+testSessionID+"/suggestions", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SuggestionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Suggestions, 1)
	suite.True(resp.Suggestions[0].BankOnly)
	suite.Equal(matching.DecisionNoMatch, resp.Suggestions[0].Decision)
}

func (suite *ReconciliationHandlerTestSuite) TestCompleteAndReport() {
	report := &domain.ReconciliationReport{
		SessionID:          testSessionID,
		Status:             domain.SessionCompleted,
		BalanceDiscrepancy: decimal.RequireFromString("-4.50"),
		IsBalanced:         false,
	}
	suite.mockService.On("CompleteSession", mock.Anything, testWorkplaceID, testSessionID, testUserID).Return(report, nil).Once()
	suite.mockService.On("CompleteSession", mock.Anything, testWorkplaceID, "done", testUserID).
		Return(nil, fmt.Errorf("%w: session done is COMPLETED", apperrors.ErrInvalidState)).Once()
	suite.mockService.On("GetReport", mock.Anything, testWorkplaceID, testSessionID, testUserID).Return(report, nil).Once()

	w := suite.do(http.MethodPost, basePath+"/"+testSessionID+"/complete", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var got domain.ReconciliationReport
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.BalanceDiscrepancy.Equal(decimal.RequireFromString("-4.50")))
	suite.False(got.IsBalanced)

	w = suite.do(http.MethodPost, basePath+"/done/complete", nil, "")
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodGet, basePath+"/"+testSessionID+"/report", nil, "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestDeleteSession() {
	suite.mockService.On("DeleteSession", mock.Anything, testWorkplaceID, testSessionID, testUserID).Return(nil).Once()
	suite.mockService.On("DeleteSession", mock.Anything, testWorkplaceID, "other", testUserID).Return(apperrors.ErrForbidden).Once()

	w := suite.do(http.MethodDelete, basePath+"/"+testSessionID, nil, "")
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodDelete, basePath+"/other", nil, "")
	suite.Equal(http.StatusForbidden, w.Code)
}

func TestReconciliationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationHandlerTestSuite))
}
