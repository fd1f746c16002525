package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadhub/config"
	deliverycontext "leadhub/internal/delivery/context"
	deliveryhttp "leadhub/internal/delivery/http"
	"leadhub/internal/delivery/http/middleware"
	"leadhub/internal/delivery/http/response"
	"leadhub/internal/delivery/http/router"
	"leadhub/internal/delivery/http/router/handler"
	"leadhub/internal/infra/auth"
	"leadhub/internal/infra/metrics"
	"leadhub/internal/infra/persistence/memory"
	"leadhub/internal/usecase"
	"leadhub/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorInfo `json:"error"`
	Meta  *response.MetaInfo  `json:"meta"`
}

type apiTest struct {
	t        *testing.T
	e        *echo.Echo
	identity usecase.IdentityUsecase
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.SecretKey.Access = "http-test-secret"
	cfg.Session.TTL = time.Hour
	cfg.Session.CookieName = "leadhub_session"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"

	return cfg
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()

	cfg := newTestConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	repos := store.Repos()
	hasher := auth.NewBcryptHasher(cfg)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	identity := impl.NewIdentityService(impl.IdentityServiceParams{
		TxManager:    store,
		UserRepo:     repos.UserRepo(),
		PartnerRepo:  repos.DsaPartnerRepo(),
		SessionRepo:  store.Sessions(),
		Hasher:       hasher,
		TokenService: tokens,
		Config:       cfg,
		Logger:       logger,
	})
	apps := impl.NewLoanApplicationService(impl.LoanApplicationServiceParams{
		TxManager:  store,
		AppRepo:    repos.LoanApplicationRepo(),
		LeadRepo:   repos.LeadRepo(),
		Dispatcher: impl.NewApplicationEventDispatcher(impl.NewCompanionLeadHandler(logger)),
		Logger:     logger,
	})
	leads := impl.NewLeadService(impl.LeadServiceParams{
		TxManager: store,
		LeadRepo:  repos.LeadRepo(),
		Config:    cfg,
		Logger:    logger,
	})
	partners := impl.NewDsaPartnerService(impl.DsaPartnerServiceParams{
		TxManager:   store,
		PartnerRepo: repos.DsaPartnerRepo(),
		SessionRepo: store.Sessions(),
		Hasher:      hasher,
		Logger:      logger,
	})
	queries := impl.NewContactQueryService(impl.ContactQueryServiceParams{
		TxManager: store,
		QueryRepo: repos.ContactQueryRepo(),
		Logger:    logger,
	})

	e := deliveryhttp.NewEcho(cfg, logger, metrics.NewRegistry(), router.RouterParams{
		IdentityHandler:        handler.NewIdentityHandler(identity, cfg),
		LoanApplicationHandler: handler.NewLoanApplicationHandler(apps),
		LeadHandler:            handler.NewLeadHandler(leads),
		DsaPartnerHandler:      handler.NewDsaPartnerHandler(partners),
		ContactQueryHandler:    handler.NewContactQueryHandler(queries),
		AuthMiddleware:         middleware.NewAuthMiddleware(identity, cfg, logger),
	})

	return &apiTest{t: t, e: e, identity: identity}
}

func (a *apiTest) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(a.t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), rec.Body.String())
	}

	return env
}

func registerBody(username string) map[string]any {
	return map[string]any{
		"username":     username,
		"email":        username + "@example.com",
		"password":     "secret-" + username,
		"fullName":     "Full " + username,
		"mobileNumber": "9000000000",
	}
}

func (a *apiTest) login(username, password string) string {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password}, "")
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var out handler.LoginResponse
	decode(a.t, rec, &out)
	require.NotEmpty(a.t, out.Token)

	return out.Token
}

func (a *apiTest) registerAndLogin(username string) string {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/users/register", registerBody(username), "")
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	return a.login(username, "secret-"+username)
}

func (a *apiTest) adminToken() string {
	a.t.Helper()

	_, err := a.identity.EnsureAdmin(context.Background(), usecase.AdminSeed{
		Username:     "admin",
		Email:        "admin@example.com",
		Password:     "admin-secret",
		FullName:     "Admin",
		MobileNumber: "9000000001",
	})
	require.NoError(a.t, err)

	return a.login("admin", "admin-secret")
}

func TestHealthCheck_EchoesRequestID(t *testing.T) {
	api := newAPITest(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(deliverycontext.HeaderXRequestID))

	var data map[string]string
	env := decode(t, rec, &data)
	assert.Equal(t, "ok", data["status"])
	require.NotNil(t, env.Meta)
	assert.Equal(t, "req-123", env.Meta.RequestID)
}

func TestRegister_NeverReturnsPasswordHash(t *testing.T) {
	api := newAPITest(t)

	rec := api.do(http.MethodPost, "/api/users/register", registerBody("alice"), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret-alice")
	assert.NotContains(t, rec.Body.String(), "assword")

	var user handler.UserResponse
	decode(t, rec, &user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "user", user.Role)
	assert.True(t, user.IsActive)
}

func TestRegister_Errors(t *testing.T) {
	api := newAPITest(t)

	rec := api.do(http.MethodPost, "/api/users/register", registerBody("bob"), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/api/users/register", registerBody("bob"), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "DUPLICATE_USERNAME", env.Error.Code)

	body := registerBody("carol")
	body["email"] = "not-an-email"
	rec = api.do(http.MethodPost, "/api/users/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env = decode(t, rec, nil)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Details, "email")

	rec = api.do(http.MethodPost, "/api/users/register", "{not json", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env = decode(t, rec, nil)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestSessionLifecycle(t *testing.T) {
	api := newAPITest(t)
	token := api.registerAndLogin("dave")

	rec := api.do(http.MethodGet, "/api/auth/user", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var user handler.UserResponse
	decode(t, rec, &user)
	assert.Equal(t, "dave", user.Username)

	rec = api.do(http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/auth/user", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)
	assert.Nil(t, env.Error.Details)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	api := newAPITest(t)
	api.do(http.MethodPost, "/api/users/register", registerBody("erin"), "")

	rec := api.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "erin", "password": "secret-erin"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "leadhub_session" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.AddCookie(sessionCookie)
	cookieRec := httptest.NewRecorder()
	api.e.ServeHTTP(cookieRec, req)
	assert.Equal(t, http.StatusOK, cookieRec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newAPITest(t)
	api.do(http.MethodPost, "/api/users/register", registerBody("frank"), "")

	rec := api.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "frank", "password": "nope-nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestInvalidTokenIsTreatedAsAnonymous(t *testing.T) {
	api := newAPITest(t)

	rec := api.do(http.MethodPost, "/api/leads", map[string]any{
		"name":         "Walk In",
		"mobileNumber": "9876543210",
		"loanType":     "personal",
	}, "garbage-token")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/leads", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicLeadAndTracking(t *testing.T) {
	api := newAPITest(t)

	rec := api.do(http.MethodPost, "/api/leads", map[string]any{
		"name":         "Ravi",
		"mobileNumber": "9876543210",
		"loanType":     "home",
		"amount":       "2500000",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var lead handler.LeadResponse
	decode(t, rec, &lead)
	assert.Equal(t, "new", lead.Status)
	assert.Equal(t, "website", lead.Source)

	rec = api.do(http.MethodGet, "/api/applications/track/9876543210", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tracked []handler.LeadResponse
	decode(t, rec, &tracked)
	require.Len(t, tracked, 1)
	assert.Equal(t, lead.ID, tracked[0].ID)

	rec = api.do(http.MethodGet, "/api/applications/track/9999999999", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &tracked)
	assert.Empty(t, tracked)
}

func TestDirectApplication(t *testing.T) {
	api := newAPITest(t)

	rec := api.do(http.MethodPost, "/api/loan-applications/direct", map[string]any{
		"applicantInfo": map[string]any{
			"fullName":     "Meera",
			"mobileNumber": "9123456780",
			"email":        "meera@example.com",
		},
		"loanType": "business",
		"amount":   "500000",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out handler.DirectApplicationResponse
	decode(t, rec, &out)
	require.NotNil(t, out.Lead)
	assert.Equal(t, out.Lead.ID, out.ApplicationID)
	assert.Equal(t, out.Lead.ID, out.TrackingNumber)
	assert.Equal(t, "direct_application", out.Lead.Source)
}

func TestApplicationCreatesCompanionLead(t *testing.T) {
	api := newAPITest(t)
	userToken := api.registerAndLogin("gita")
	adminToken := api.adminToken()

	rec := api.do(http.MethodPost, "/api/loan-applications", map[string]any{
		"loanType": "personal",
		"amount":   "100000",
		"tenure":   24,
	}, userToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var app handler.LoanApplicationResponse
	decode(t, rec, &app)
	assert.Equal(t, "pending", app.Status)
	assert.Equal(t, "7.5", app.InterestRate.String())

	rec = api.do(http.MethodGet, "/api/loan-applications", nil, userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var apps []handler.LoanApplicationResponse
	decode(t, rec, &apps)
	require.Len(t, apps, 1)

	rec = api.do(http.MethodGet, "/api/leads", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var leads []handler.LeadResponse
	decode(t, rec, &leads)
	require.Len(t, leads, 1)
	assert.Equal(t, "application", leads[0].Source)
}

func TestAssignLeadToDsa(t *testing.T) {
	api := newAPITest(t)
	adminToken := api.adminToken()

	rec := api.do(http.MethodPost, "/api/dsa-partners", map[string]any{
		"userData":    registerBody("partner"),
		"partnerData": map[string]any{"experience": "5 years"},
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg handler.DsaRegistrationResponse
	decode(t, rec, &reg)
	assert.Equal(t, "dsa", reg.User.Role)
	assert.Equal(t, "pending", reg.Partner.KycStatus)

	rec = api.do(http.MethodPost, "/api/leads", map[string]any{
		"name":         "Prospect",
		"mobileNumber": "9000011111",
		"loanType":     "car",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var lead handler.LeadResponse
	decode(t, rec, &lead)

	dsaToken := api.login("partner", "secret-partner")

	rec = api.do(http.MethodPatch, "/api/leads/"+lead.ID.String()+"/assign", map[string]any{"dsaId": reg.User.ID}, dsaToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPatch, "/api/leads/"+lead.ID.String()+"/assign", map[string]any{"dsaId": reg.User.ID}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &lead)
	require.NotNil(t, lead.AssignedDsaID)
	assert.Equal(t, reg.User.ID, *lead.AssignedDsaID)
	assert.NotNil(t, lead.AssignedAt)

	rec = api.do(http.MethodGet, "/api/leads", nil, dsaToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var visible []handler.LeadResponse
	decode(t, rec, &visible)
	require.Len(t, visible, 1)

	rec = api.do(http.MethodPatch, "/api/leads/"+lead.ID.String(), map[string]any{"status": "contacted"}, dsaToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &lead)
	assert.Equal(t, "contacted", lead.Status)
}

func TestAssignLead_MissingDsaIDIsValidationError(t *testing.T) {
	api := newAPITest(t)
	adminToken := api.adminToken()

	rec := api.do(http.MethodPost, "/api/leads", map[string]any{
		"name":         "Prospect",
		"mobileNumber": "9000011111",
		"loanType":     "car",
	}, "")
	var lead handler.LeadResponse
	decode(t, rec, &lead)

	rec = api.do(http.MethodPatch, "/api/leads/"+lead.ID.String()+"/assign", map[string]any{}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestInvalidPathIDIsNotFound(t *testing.T) {
	api := newAPITest(t)
	adminToken := api.adminToken()

	rec := api.do(http.MethodPatch, "/api/leads/not-a-uuid", map[string]any{"status": "closed"}, adminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestContactQueries(t *testing.T) {
	api := newAPITest(t)
	userToken := api.registerAndLogin("hari")
	adminToken := api.adminToken()

	rec := api.do(http.MethodPost, "/api/contact-queries", map[string]any{
		"name":         "Visitor",
		"mobileNumber": "9000022222",
		"message":      "Please call me back",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var query handler.ContactQueryResponse
	decode(t, rec, &query)
	assert.Equal(t, "new", query.Status)

	rec = api.do(http.MethodGet, "/api/contact-queries", nil, userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
	assert.Nil(t, env.Error.Details)

	rec = api.do(http.MethodPatch, "/api/contact-queries/"+query.ID.String(), map[string]any{"status": "responded"}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &query)
	assert.Equal(t, "responded", query.Status)

	rec = api.do(http.MethodGet, "/api/contact-queries", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var queries []handler.ContactQueryResponse
	decode(t, rec, &queries)
	assert.Len(t, queries, 1)
}

func TestRemoveDsaPartner(t *testing.T) {
	api := newAPITest(t)
	adminToken := api.adminToken()

	rec := api.do(http.MethodPost, "/api/dsa-partners", map[string]any{"userData": registerBody("leaving")}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg handler.DsaRegistrationResponse
	decode(t, rec, &reg)
	dsaToken := api.login("leaving", "secret-leaving")

	rec = api.do(http.MethodGet, "/api/dsa-partners/profile", nil, dsaToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodDelete, "/api/dsa-partners/"+reg.Partner.ID.String(), nil, adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/dsa-partners/profile", nil, dsaToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodGet, "/api/dsa-partners", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var partners []handler.DsaPartnerDetailResponse
	decode(t, rec, &partners)
	require.Len(t, partners, 1)
	assert.Equal(t, "rejected", partners[0].KycStatus)
	assert.False(t, partners[0].IsActive)
}

func TestDsaProfilePicture(t *testing.T) {
	api := newAPITest(t)
	adminToken := api.adminToken()
	userToken := api.registerAndLogin("asha")

	rec := api.do(http.MethodPost, "/api/dsa-partners", map[string]any{"userData": registerBody("agent")}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg handler.DsaRegistrationResponse
	decode(t, rec, &reg)
	dsaToken := api.login("agent", "secret-agent")

	rec = api.do(http.MethodGet, "/api/dsa-partners/profile", nil, userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = api.do(http.MethodGet, "/api/dsa-partners/profile", nil, adminToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	path := "/api/dsa-partners/" + reg.Partner.ID.String() + "/profile-picture"
	body := map[string]string{"profilePicture": "https://cdn.example.com/agent.png"}

	rec = api.do(http.MethodPatch, path, body, adminToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPatch, path, body, dsaToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var partner handler.DsaPartnerResponse
	decode(t, rec, &partner)
	require.NotNil(t, partner.ProfilePicture)
	assert.Equal(t, "https://cdn.example.com/agent.png", *partner.ProfilePicture)

	rec = api.do(http.MethodGet, "/api/dsa-partners/profile", nil, dsaToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile handler.DsaPartnerDetailResponse
	decode(t, rec, &profile)
	require.NotNil(t, profile.ProfilePicture)
	assert.Equal(t, "https://cdn.example.com/agent.png", *profile.ProfilePicture)
}

func TestResetPassword_AdminOnly(t *testing.T) {
	api := newAPITest(t)
	userToken := api.registerAndLogin("ivan")
	adminToken := api.adminToken()

	rec := api.do(http.MethodGet, "/api/auth/user", nil, userToken)
	var user handler.UserResponse
	decode(t, rec, &user)

	path := "/api/users/" + user.ID.String() + "/password"
	rec = api.do(http.MethodPatch, path, map[string]string{"password": "brand-new"}, userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPatch, path, map[string]string{"password": "brand-new"}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/auth/user", nil, userToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	api.login("ivan", "brand-new")
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	api := newAPITest(t)

	rec := api.do(http.MethodGet, "/api/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "HTTP_ERROR", env.Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newAPITest(t)
	api.do(http.MethodGet, "/health", nil, "")

	rec := api.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/health",status="200"} 1`)
}
