package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/domain"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testAdminEmail = "admin@example.com"

type WaitlistAPITestSuite struct {
	suite.Suite
	db         *gorm.DB
	server     *httptest.Server
	baseURL    string
	logger     *log.Logger
	appConfig  *config.ApplicationConfig
	adminToken string
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	suite.T().Setenv("JWT_SECRET", "integration-test-secret")
	suite.T().Setenv("ADMIN_ALLOWED_EMAILS", testAdminEmail)

	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(models.ModelRegistry...)
	suite.Require().NoError(err)

	suite.logger = log.NewLoggerWithJSONOutput()

	suite.appConfig = &config.ApplicationConfig{
		DB:     suite.db,
		Logger: suite.logger,
	}

	suite.appConfig.RouterService = router.CreateRouterService(suite.logger, nil, &router.RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	})

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL

	suite.adminToken = suite.obtainAdminToken()
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		sqlDB.Close()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM waitlist_signups")
}

func (suite *WaitlistAPITestSuite) obtainAdminToken() string {
	body, _ := json.Marshal(map[string]string{"email": testAdminEmail})

	resp, err := http.Post(suite.baseURL+"/api/admin/auth", "application/json", bytes.NewBuffer(body))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))

	data := response["data"].(map[string]interface{})
	token := data["token"].(string)
	suite.Require().NotEmpty(token)

	return token
}

func (suite *WaitlistAPITestSuite) adminRequest(method, path string, body []byte) *http.Response {
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, suite.baseURL+path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.adminToken)

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)

	return resp
}

func (suite *WaitlistAPITestSuite) seedSignup(signup *models.WaitlistSignup) *models.WaitlistSignup {
	if signup.Status == "" {
		signup.Status = models.StatusPending
	}
	suite.Require().NoError(suite.db.Create(signup).Error)
	return signup
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, err := http.Get(suite.baseURL + "/api/health")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(float64(200), response["code"])
	suite.Contains(response["message"], "Health check completed")

	data := response["data"].(map[string]interface{})
	suite.Equal("ok", data["status"])
	suite.Contains(data, "timestamp")
	suite.Equal(float64(1), data["database"])
}

func (suite *WaitlistAPITestSuite) TestCreateSignup() {
	requestBody := map[string]interface{}{
		"full_name":       "Jane Doe",
		"email":           "JANE@Example.com",
		"referral_source": "twitter",
		"interests":       []string{"ai", "devtools"},
	}

	jsonBody, _ := json.Marshal(requestBody)

	resp, err := http.Post(suite.baseURL+"/api/waitlist", "application/json", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusCreated, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(float64(201), response["code"])
	suite.Contains(response["message"], "joined the waitlist")

	data := response["data"].(map[string]interface{})
	suite.Equal("jane@example.com", data["email"])
	suite.Equal("Jane Doe", data["full_name"])
	suite.Equal(models.StatusPending, data["status"])

	// The verification token must stay server-side.
	suite.NotContains(data, "verification_token")

	var row models.WaitlistSignup
	suite.Require().NoError(suite.db.Where("email = ?", "jane@example.com").First(&row).Error)
	suite.Require().NotNil(row.VerificationToken)
	suite.Len(*row.VerificationToken, 64)
	suite.Require().NotNil(row.VerificationExpiry)
	suite.WithinDuration(time.Now().Add(24*time.Hour), *row.VerificationExpiry, time.Minute)
	suite.False(row.EmailVerified)
}

func (suite *WaitlistAPITestSuite) TestCreateSignupDuplicateEmail() {
	suite.seedSignup(&models.WaitlistSignup{
		FullName: "First User",
		Email:    "duplicate@example.com",
	})

	requestBody := map[string]string{
		"full_name": "Second User",
		"email":     "Duplicate@Example.com",
	}

	jsonBody, _ := json.Marshal(requestBody)

	resp, err := http.Post(suite.baseURL+"/api/waitlist", "application/json", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusConflict, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(float64(409), response["code"])

	var count int64
	suite.db.Model(&models.WaitlistSignup{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *WaitlistAPITestSuite) TestCreateSignupValidationError() {
	requestBody := map[string]string{
		"full_name": "J",
		"email":     "not-an-email",
	}

	jsonBody, _ := json.Marshal(requestBody)

	resp, err := http.Post(suite.baseURL+"/api/waitlist", "application/json", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusBadRequest, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(float64(400), response["code"])
	suite.Contains(response["message"], "Invalid request payload")

	data := response["data"].([]interface{})
	suite.True(len(data) > 0)
}

func (suite *WaitlistAPITestSuite) TestVerifyEmail() {
	token := strings.Repeat("ab", 32)
	expiry := time.Now().Add(time.Hour)

	seeded := suite.seedSignup(&models.WaitlistSignup{
		FullName:           "Pending User",
		Email:              "pending@example.com",
		VerificationToken:  &token,
		VerificationExpiry: &expiry,
	})

	jsonBody, _ := json.Marshal(map[string]string{"token": token})

	resp, err := http.Post(suite.baseURL+"/api/waitlist/verify", "application/json", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	data := response["data"].(map[string]interface{})
	suite.Equal(models.StatusVerified, data["status"])
	suite.Equal(true, data["email_verified"])

	var row models.WaitlistSignup
	suite.Require().NoError(suite.db.First(&row, seeded.ID).Error)
	suite.Equal(models.StatusVerified, row.Status)
	suite.True(row.EmailVerified)
	suite.Nil(row.VerificationToken)
	suite.Nil(row.VerificationExpiry)
}

func (suite *WaitlistAPITestSuite) TestVerifyEmailExpiredToken() {
	token := strings.Repeat("cd", 32)
	expiry := time.Now().Add(-time.Hour)

	seeded := suite.seedSignup(&models.WaitlistSignup{
		FullName:           "Late User",
		Email:              "late@example.com",
		VerificationToken:  &token,
		VerificationExpiry: &expiry,
	})

	jsonBody, _ := json.Marshal(map[string]string{"token": token})

	resp, err := http.Post(suite.baseURL+"/api/waitlist/verify", "application/json", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusBadRequest, resp.StatusCode)

	var row models.WaitlistSignup
	suite.Require().NoError(suite.db.First(&row, seeded.ID).Error)
	suite.Equal(models.StatusPending, row.Status)
	suite.False(row.EmailVerified)
}

func (suite *WaitlistAPITestSuite) TestListSignupsRequiresAdmin() {
	resp, err := http.Get(suite.baseURL + "/api/waitlist")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (suite *WaitlistAPITestSuite) TestListSignupsWithStats() {
	suite.seedSignup(&models.WaitlistSignup{FullName: "User One", Email: "one@example.com"})
	suite.seedSignup(&models.WaitlistSignup{
		FullName:      "User Two",
		Email:         "two@example.com",
		Status:        models.StatusVerified,
		EmailVerified: true,
	})

	resp := suite.adminRequest(http.MethodGet, "/api/waitlist", nil)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))

	data := response["data"].(map[string]interface{})
	signups := data["signups"].([]interface{})
	suite.Len(signups, 2)

	stats := data["stats"].(map[string]interface{})
	suite.Equal(float64(2), stats["total_signups"])
	suite.Equal(float64(1), stats["pending_count"])
	suite.Equal(float64(1), stats["verified_count"])
	suite.Contains(stats, "weekly_growth")
	suite.Contains(stats, "today_signups")
}

func (suite *WaitlistAPITestSuite) TestListSignupsStatusFilter() {
	suite.seedSignup(&models.WaitlistSignup{FullName: "User One", Email: "one@example.com"})
	suite.seedSignup(&models.WaitlistSignup{
		FullName: "User Two",
		Email:    "two@example.com",
		Status:   models.StatusInvited,
	})

	resp := suite.adminRequest(http.MethodGet, "/api/waitlist?status=invited", nil)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))

	data := response["data"].(map[string]interface{})
	signups := data["signups"].([]interface{})
	suite.Require().Len(signups, 1)

	signup := signups[0].(map[string]interface{})
	suite.Equal("two@example.com", signup["email"])
}

func (suite *WaitlistAPITestSuite) TestUpdateSignup() {
	seeded := suite.seedSignup(&models.WaitlistSignup{FullName: "User One", Email: "one@example.com"})

	jsonBody, _ := json.Marshal(map[string]interface{}{
		"status":   models.StatusInvited,
		"priority": 7,
		"notes":    "VIP <script>customer</script>",
	})

	resp := suite.adminRequest(http.MethodPatch, fmt.Sprintf("/api/waitlist/%d", seeded.ID), jsonBody)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var row models.WaitlistSignup
	suite.Require().NoError(suite.db.First(&row, seeded.ID).Error)
	suite.Equal(models.StatusInvited, row.Status)
	suite.Equal(7, row.Priority)
	suite.Equal("VIP scriptcustomer/script", row.Notes)
	suite.Require().NotNil(row.InvitedAt)
	suite.WithinDuration(time.Now(), *row.InvitedAt, time.Minute)
}

func (suite *WaitlistAPITestSuite) TestUpdateSignupNotFound() {
	priorityUpdate, _ := json.Marshal(map[string]interface{}{"priority": 5})

	resp := suite.adminRequest(http.MethodPatch, "/api/waitlist/9999", priorityUpdate)
	defer resp.Body.Close()

	suite.Equal(http.StatusNotFound, resp.StatusCode)
}

func (suite *WaitlistAPITestSuite) TestBulkUpdateIsAtomic() {
	first := suite.seedSignup(&models.WaitlistSignup{FullName: "User One", Email: "one@example.com"})
	second := suite.seedSignup(&models.WaitlistSignup{FullName: "User Two", Email: "two@example.com"})

	jsonBody, _ := json.Marshal(map[string]interface{}{
		"signup_ids": []uint{first.ID, second.ID, 9999},
		"updates":    map[string]interface{}{"status": models.StatusInvited},
	})

	resp := suite.adminRequest(http.MethodPost, "/api/waitlist/bulk-update", jsonBody)
	defer resp.Body.Close()

	suite.Equal(http.StatusNotFound, resp.StatusCode)

	// No row may change when any ID in the batch is unknown.
	var invited int64
	suite.db.Model(&models.WaitlistSignup{}).Where("status = ?", models.StatusInvited).Count(&invited)
	suite.Equal(int64(0), invited)
}

func (suite *WaitlistAPITestSuite) TestBulkUpdate() {
	first := suite.seedSignup(&models.WaitlistSignup{FullName: "User One", Email: "one@example.com"})
	second := suite.seedSignup(&models.WaitlistSignup{FullName: "User Two", Email: "two@example.com"})

	jsonBody, _ := json.Marshal(map[string]interface{}{
		"signup_ids": []uint{first.ID, second.ID},
		"updates":    map[string]interface{}{"status": models.StatusInvited},
	})

	resp := suite.adminRequest(http.MethodPost, "/api/waitlist/bulk-update", jsonBody)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))

	data := response["data"].(map[string]interface{})
	suite.Equal(float64(2), data["updated"])

	var invited int64
	suite.db.Model(&models.WaitlistSignup{}).Where("status = ?", models.StatusInvited).Count(&invited)
	suite.Equal(int64(2), invited)
}

func (suite *WaitlistAPITestSuite) TestExportCSV() {
	referral := "newsletter"
	suite.seedSignup(&models.WaitlistSignup{
		FullName:       "User One",
		Email:          "one@example.com",
		ReferralSource: &referral,
		Priority:       3,
	})

	resp := suite.adminRequest(http.MethodGet, "/api/waitlist/export", nil)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(resp.Header.Get("Content-Type"), "text/csv")
	suite.Contains(resp.Header.Get("Content-Disposition"), "attachment")

	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(body.String()), "\n")
	suite.Require().Len(lines, 2)
	suite.Equal("ID,Full Name,Email,Status,Verified,Priority,Signup Date,Referral Source,Interests,Notes", lines[0])
	suite.Contains(lines[1], "one@example.com")
	suite.Contains(lines[1], "newsletter")
}

func TestWaitlistAPISuite(t *testing.T) {
	// Skip integration tests unless explicitly requested
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	suite.Run(t, new(WaitlistAPITestSuite))
}
