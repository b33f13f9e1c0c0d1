package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/leminhha/salespipe/internal/app"
	iauth "github.com/leminhha/salespipe/internal/auth"
	"github.com/leminhha/salespipe/internal/database/testutil"
	"github.com/leminhha/salespipe/internal/models"
	"github.com/leminhha/salespipe/internal/services"
	"github.com/leminhha/salespipe/pkg/response"
)

type apiFixture struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *iauth.TokenService
}

func newAPIFixture(t *testing.T, configure func(*app.Config)) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	cfg := &app.Config{}
	cfg.Auth.TokenSecret = "router-test-secret"
	cfg.Auth.Issuer = "salespipe"
	if configure != nil {
		configure(cfg)
	}

	tokens, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret: cfg.Auth.TokenSecret,
		Issuer: cfg.Auth.Issuer,
	})
	require.NoError(t, err)

	router, err := NewRouter(db, tokens, cfg)
	require.NoError(t, err)

	return &apiFixture{router: router, db: db, tokens: tokens}
}

func (f *apiFixture) createAccount(t *testing.T, email, password, role string) *models.User {
	t.Helper()

	hash, err := services.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{Email: email, Password: hash, Role: role, IsActive: true}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *apiFixture) token(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := f.tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) request(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	fixture := newAPIFixture(t, nil)

	rec := fixture.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	fixture := newAPIFixture(t, nil)

	rec := fixture.request(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestLoginIssuesTokenAndCookie(t *testing.T) {
	fixture := newAPIFixture(t, nil)
	fixture.createAccount(t, "rep@example.com", "s3cret-pass", "SALES")

	rec := fixture.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "rep@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.True(t, body.Success)
	data := body.Data.(map[string]any)
	require.NotEmpty(t, data["token"])

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == iauth.SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	require.True(t, sessionCookie.HttpOnly)

	// The issued token works for authenticated endpoints.
	rec = fixture.request(t, http.MethodGet, "/api/auth/me", data["token"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	fixture := newAPIFixture(t, nil)
	fixture.createAccount(t, "rep@example.com", "s3cret-pass", "SALES")

	rec := fixture.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "rep@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, rec).Error.Code)

	// Unknown identity produces the identical failure.
	rec = fixture.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ghost@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, rec).Error.Code)
}

func TestLoginValidatesPayload(t *testing.T) {
	fixture := newAPIFixture(t, nil)

	rec := fixture.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_FAILED", decodeBody(t, rec).Error.Code)
}

func TestMeReportsEffectivePermissions(t *testing.T) {
	fixture := newAPIFixture(t, nil)
	superadmin := fixture.createAccount(t, "root@example.com", "s3cret-pass", "SUPERADMIN")

	rec := fixture.request(t, http.MethodGet, "/api/auth/me", fixture.token(t, superadmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec).Data.(map[string]any)
	granted := data["permissions"].([]any)
	require.Contains(t, granted, "users.edit")
	require.Contains(t, granted, "roles.delete")
	require.NotContains(t, granted, "customers.view_all")
}

func TestMeReportsDataScopes(t *testing.T) {
	fixture := newAPIFixture(t, nil)
	manager := fixture.createAccount(t, "manager@example.com", "s3cret-pass", "MANAGER")
	sales := fixture.createAccount(t, "rep@example.com", "s3cret-pass", "SALES")

	rec := fixture.request(t, http.MethodGet, "/api/auth/me", fixture.token(t, manager), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	scopes := decodeBody(t, rec).Data.(map[string]any)["data_scopes"].(map[string]any)
	require.Equal(t, "no_restriction", scopes["customers"])

	rec = fixture.request(t, http.MethodGet, "/api/auth/me", fixture.token(t, sales), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	scopes = decodeBody(t, rec).Data.(map[string]any)["data_scopes"].(map[string]any)
	require.Equal(t, "owned_or_assigned", scopes["leads"])
	require.Equal(t, "owned_or_assigned", scopes["quotations"])
}

func TestRoleManagementRequiresIdentityPermissions(t *testing.T) {
	fixture := newAPIFixture(t, nil)
	sales := fixture.createAccount(t, "rep@example.com", "s3cret-pass", "SALES")
	admin := fixture.createAccount(t, "admin@example.com", "s3cret-pass", "ADMIN")

	// SALES holds no identity permissions.
	rec := fixture.request(t, http.MethodGet, "/api/roles", fixture.token(t, sales), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Under the default policy ADMIN is shut out of identity management too.
	rec = fixture.request(t, http.MethodGet, "/api/roles", fixture.token(t, admin), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Unauthenticated requests get 401, not 403.
	rec = fixture.request(t, http.MethodGet, "/api/roles", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSharedIdentityPolicyOpensRoleManagementToAdmin(t *testing.T) {
	fixture := newAPIFixture(t, func(cfg *app.Config) {
		cfg.Policy.IdentityManagement = "shared_with_admin"
	})
	admin := fixture.createAccount(t, "admin@example.com", "s3cret-pass", "ADMIN")

	rec := fixture.request(t, http.MethodGet, "/api/roles", fixture.token(t, admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleLifecycleOverHTTP(t *testing.T) {
	fixture := newAPIFixture(t, nil)
	superadmin := fixture.createAccount(t, "root@example.com", "s3cret-pass", "SUPERADMIN")
	token := fixture.token(t, superadmin)

	// Collect two catalog permission ids from the API.
	rec := fixture.request(t, http.MethodGet, "/api/permissions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var leadIDs []string
	var perm models.Permission
	require.NoError(t, fixture.db.First(&perm, "resource = ? AND action = ?", "leads", "view_all").Error)
	leadIDs = append(leadIDs, perm.ID)

	// Create.
	rec = fixture.request(t, http.MethodPost, "/api/roles", token, gin.H{
		"name":           "Lead Desk",
		"description":    "Handles inbound leads",
		"permission_ids": leadIDs,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec).Data.(map[string]any)
	roleID := created["id"].(string)

	// Read back with usage.
	rec = fixture.request(t, http.MethodGet, "/api/roles/"+roleID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Rename.
	rec = fixture.request(t, http.MethodPatch, "/api/roles/"+roleID, token, gin.H{
		"name": "Inbound Desk",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Replace the permission set.
	require.NoError(t, fixture.db.First(&perm, "resource = ? AND action = ?", "customers", "view_assigned").Error)
	rec = fixture.request(t, http.MethodPut, "/api/roles/"+roleID+"/permissions", token, gin.H{
		"permission_ids": []string{perm.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Deactivate, then confirm the default listing hides it.
	rec = fixture.request(t, http.MethodPatch, "/api/roles/"+roleID+"/active", token, gin.H{
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fixture.request(t, http.MethodGet, "/api/roles", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Inbound Desk")

	rec = fixture.request(t, http.MethodGet, "/api/roles?include_inactive=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Inbound Desk")

	// Delete.
	rec = fixture.request(t, http.MethodDelete, "/api/roles/"+roleID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fixture.request(t, http.MethodGet, "/api/roles/"+roleID, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAssignedRoleReportsUserCount(t *testing.T) {
	fixture := newAPIFixture(t, nil)
	superadmin := fixture.createAccount(t, "root@example.com", "s3cret-pass", "SUPERADMIN")
	token := fixture.token(t, superadmin)

	rec := fixture.request(t, http.MethodPost, "/api/roles", token, gin.H{"name": "In Use"})
	require.Equal(t, http.StatusCreated, rec.Code)
	roleID := decodeBody(t, rec).Data.(map[string]any)["id"].(string)

	assignee := fixture.createAccount(t, "assigned@example.com", "s3cret-pass", "SALES")
	require.NoError(t, fixture.db.Model(assignee).Update("custom_role_id", roleID).Error)

	rec = fixture.request(t, http.MethodDelete, "/api/roles/"+roleID, token, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "CONFLICT", body.Error.Code)
	require.EqualValues(t, 1, body.Error.Details["user_count"])
}

func TestAuditTrailReservedForSuperAdmin(t *testing.T) {
	fixture := newAPIFixture(t, nil)
	superadmin := fixture.createAccount(t, "root@example.com", "s3cret-pass", "SUPERADMIN")
	admin := fixture.createAccount(t, "admin@example.com", "s3cret-pass", "ADMIN")
	token := fixture.token(t, superadmin)

	rec := fixture.request(t, http.MethodPost, "/api/roles", token, gin.H{"name": "Traced"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = fixture.request(t, http.MethodGet, "/api/audit", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "role.create")

	rec = fixture.request(t, http.MethodGet, "/api/audit", fixture.token(t, admin), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPermissionCatalogGroupedByCategory(t *testing.T) {
	fixture := newAPIFixture(t, nil)
	superadmin := fixture.createAccount(t, "root@example.com", "s3cret-pass", "SUPERADMIN")

	rec := fixture.request(t, http.MethodGet, "/api/permissions", fixture.token(t, superadmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec).Data.(map[string]any)
	require.ElementsMatch(t, []any{"catalog", "identity", "sales"}, data["categories"].([]any))

	catalog := data["catalog"].(map[string]any)
	require.Len(t, catalog, 3)
	require.NotEmpty(t, catalog["sales"])
}
