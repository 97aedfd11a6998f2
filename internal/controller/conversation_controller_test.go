package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }

type stubGuard struct{}

func (stubGuard) Operator(ctx context.Context, operatorId, organizationId string) (entity.Principal, error) {
	if operatorId == "" {
		return entity.Principal{}, apperror.Unauthorized("Identity not found")
	}
	if organizationId == "" {
		return entity.Principal{}, apperror.Unauthorized("Organization not found")
	}
	return entity.Principal{Kind: entity.PrincipalOperator, OrganizationId: organizationId}, nil
}

func (stubGuard) EndUser(ctx context.Context, sessionId uuid.UUID) (entity.Principal, error) {
	return entity.Principal{}, apperror.Unauthorized("Invalid session")
}

// stubConversationService records the principal it was called with and
// replays canned results.
type stubConversationService struct {
	lastPrincipal entity.Principal
	detail        *dto.ConversationDetailResponse
	err           error
}

func (s *stubConversationService) Create(ctx context.Context, principal entity.Principal, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error) {
	s.lastPrincipal = principal
	return &dto.CreateConversationResponse{Id: uuid.New()}, s.err
}

func (s *stubConversationService) GetOne(ctx context.Context, principal entity.Principal, conversationId uuid.UUID) (*dto.ConversationDetailResponse, error) {
	s.lastPrincipal = principal
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubConversationService) GetOneForContact(ctx context.Context, principal entity.Principal, conversationId uuid.UUID) (*dto.WidgetConversationResponse, error) {
	return nil, apperror.NotFound("Conversation not found")
}

func (s *stubConversationService) GetMany(ctx context.Context, principal entity.Principal, req *dto.ListConversationsRequest) (*dto.Page[*dto.ConversationListItem], error) {
	s.lastPrincipal = principal
	if s.err != nil {
		return nil, s.err
	}
	return &dto.Page[*dto.ConversationListItem]{Page: []*dto.ConversationListItem{}, IsDone: true}, nil
}

func (s *stubConversationService) GetManyForContact(ctx context.Context, principal entity.Principal, req *dto.ListConversationsRequest) (*dto.Page[*dto.ConversationListItem], error) {
	return s.GetMany(ctx, principal, req)
}

func (s *stubConversationService) UpdateStatus(ctx context.Context, principal entity.Principal, conversationId uuid.UUID, status entity.ConversationStatus) error {
	s.lastPrincipal = principal
	return s.err
}

func (s *stubConversationService) ToggleStatus(ctx context.Context, principal entity.Principal, conversationId uuid.UUID) (*dto.ToggleConversationStatusResponse, error) {
	s.lastPrincipal = principal
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ToggleConversationStatusResponse{Status: "escalated"}, nil
}

func newTestApp(svc *stubConversationService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(testLogger{}))
	NewConversationController(svc, stubGuard{}).RegisterRoutes(app.Group("/api"))
	return app
}

func mintToken(t *testing.T, operatorId, organizationId string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"operator_id":     operatorId,
		"organization_id": organizationId,
		"iat":             time.Now().Unix(),
		"exp":             time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestConversationRoutesRequireBearerToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newTestApp(&stubConversationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/conversation/v1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/conversation/v1", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConversationGetManyResolvesOperatorScope(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubConversationService{}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/conversation/v1?page_size=10", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "op_1", "org_1"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, svc.lastPrincipal.IsOperator())
	assert.Equal(t, "org_1", svc.lastPrincipal.OrganizationId)
}

func TestConversationTokenWithoutOrganization(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newTestApp(&stubConversationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/conversation/v1", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "op_1", ""))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Organization not found", decodeBody(t, resp)["message"])
}

func TestConversationErrorMapping(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperror.NotFound("Conversation not found"), http.StatusNotFound, "NOT_FOUND"},
		{"foreign organization", apperror.Unauthorized("Invalid Organization Id"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bad filter", apperror.BadRequest("unknown status filter"), http.StatusBadRequest, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubConversationService{err: tt.svcErr})

			req := httptest.NewRequest(http.MethodGet, "/api/conversation/v1/"+uuid.NewString(), nil)
			req.Header.Set("Authorization", "Bearer "+mintToken(t, "op_1", "org_1"))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestConversationMalformedIdIsNotFound(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newTestApp(&stubConversationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/conversation/v1/not-a-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "op_1", "org_1"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConversationToggle(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newTestApp(&stubConversationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/conversation/v1/"+uuid.NewString()+"/toggle", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "op_1", "org_1"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "escalated", data["status"])
}
