// Package integration provides end-to-end tests for the visitor API.
// Tests run every endpoint against both PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenpass/lumenpass/internal/app"
	"github.com/lumenpass/lumenpass/internal/config"
	cryptoService "github.com/lumenpass/lumenpass/internal/crypto/service"
	scanService "github.com/lumenpass/lumenpass/internal/scan/service"
	"github.com/lumenpass/lumenpass/internal/testutil"
	"github.com/lumenpass/lumenpass/internal/visitor/http/dto"
)

// swappableCamera opens a camera over whatever frames the test loaded last.
type swappableCamera struct {
	mu     sync.Mutex
	frames []image.Image
}

func (s *swappableCamera) load(frames ...image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = frames
}

func (s *swappableCamera) Open(ctx context.Context) (scanService.Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scanService.NewImageSequenceCamera(s.frames, time.Millisecond), nil
}

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	camera    *swappableCamera
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ctx.do(t, req)
}

// uploadImage posts a PNG as multipart form data to the decode endpoint.
func (ctx *integrationTestContext) uploadImage(
	t *testing.T,
	pngBytes []byte,
	verifiedBy string,
) (*http.Response, []byte) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "pass.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("verified_by", verifiedBy))
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ctx.server.URL+"/v1/credentials/decode", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return ctx.do(t, req)
}

func (ctx *integrationTestContext) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",
		KeyFilePath:          filepath.Join(t.TempDir(), "secret.key"),
		LegacyDecryptEnabled: true,
		ScanTimeout:          5 * time.Second,
		ScanDecodeEvery:      1,
	}

	container := app.NewContainer(cfg)

	// The camera must be swapped before the HTTP server builds the scan use case
	camera := &swappableCamera{}
	container.UseCameraOpener(camera)

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	t.Logf("Integration test setup complete for %s", dbDriver)

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    httptest.NewServer(handler),
		camera:    camera,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

var databases = []struct {
	name     string
	dbDriver string
}{
	{"PostgreSQL", "postgres"},
	{"MySQL", "mysql"},
}

func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	for _, tc := range databases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("01_HealthCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.JSONEq(t, `{"status":"healthy"}`, string(body))
			})

			t.Run("02_ReadinessCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Contains(t, string(body), `"database":"ok"`)
			})
		})
	}
}

func TestIntegration_Visitors_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	for _, tc := range databases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var registered dto.RegisterVisitorResponse
			var passPNG []byte

			t.Run("01_Register", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/visitors", map[string]string{
					"name":    "Asha Rao",
					"phone":   "9876543210",
					"purpose": "Parcel delivery for Room 301",
				})
				require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
				require.NoError(t, json.Unmarshal(body, &registered))

				assert.Positive(t, registered.ID)
				assert.Equal(t, fmt.Sprintf("/v1/visitors/%d", registered.ID), resp.Header.Get("Location"))
				assert.Equal(t, "checked_in", registered.Status)
				assert.Equal(t, "9876543210", registered.Phone)
				assert.NotEmpty(t, registered.Token)

				var err error
				passPNG, err = base64.StdEncoding.DecodeString(registered.CredentialPNG)
				require.NoError(t, err)
				_, err = png.Decode(bytes.NewReader(passPNG))
				require.NoError(t, err)
			})

			t.Run("02_StoredFieldsAreEncrypted", func(t *testing.T) {
				query := `SELECT encrypted_phone, encrypted_purpose FROM visitors WHERE id = $1`
				if ctx.dbDriver == "mysql" {
					query = `SELECT encrypted_phone, encrypted_purpose FROM visitors WHERE id = ?`
				}
				var phone, purpose string
				require.NoError(t, ctx.db.QueryRow(query, registered.ID).Scan(&phone, &purpose))
				assert.NotContains(t, phone, "9876543210")
				assert.NotEqual(t, phone, purpose)
			})

			t.Run("03_Get", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, fmt.Sprintf("/v1/visitors/%d", registered.ID), nil)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var visitor dto.VisitorResponse
				require.NoError(t, json.Unmarshal(body, &visitor))
				assert.Equal(t, "Asha Rao", visitor.Name)
				assert.Equal(t, "Parcel delivery for Room 301", visitor.Purpose)
				assert.Nil(t, visitor.VerifiedBy)
			})

			t.Run("04_GetNotFound", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/visitors/999999", nil)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})

			t.Run("05_CredentialPNG", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, registered.CredentialURL, nil)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
				assert.Equal(t, passPNG, body)
			})

			t.Run("06_VerifyToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/credentials/verify", map[string]string{
					"token":       registered.Token,
					"verified_by": "front-desk",
				})
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var visitor dto.VisitorResponse
				require.NoError(t, json.Unmarshal(body, &visitor))
				assert.Equal(t, registered.ID, visitor.ID)
				require.NotNil(t, visitor.VerifiedBy)
				assert.Equal(t, "front-desk", *visitor.VerifiedBy)
			})

			t.Run("07_VerifyMalformedToken", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/credentials/verify", map[string]string{
					"token": "https://example.com",
				})
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			})

			t.Run("08_DecodeUploadedImage", func(t *testing.T) {
				resp, body := ctx.uploadImage(t, passPNG, "gate-2")
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var visitor dto.VisitorResponse
				require.NoError(t, json.Unmarshal(body, &visitor))
				assert.Equal(t, registered.ID, visitor.ID)
				assert.Equal(t, "9876543210", visitor.Phone)
				require.NotNil(t, visitor.VerifiedBy)
				assert.Equal(t, "gate-2", *visitor.VerifiedBy)
			})

			t.Run("09_ScanFound", func(t *testing.T) {
				frame, err := png.Decode(bytes.NewReader(passPNG))
				require.NoError(t, err)
				blank := image.NewGray(image.Rect(0, 0, 320, 240))
				ctx.camera.load(blank, blank, frame)

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/scans", map[string]any{
					"verified_by":     "lobby-camera",
					"timeout_seconds": 5,
				})
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var visitor dto.VisitorResponse
				require.NoError(t, json.Unmarshal(body, &visitor))
				assert.Equal(t, registered.ID, visitor.ID)
			})

			t.Run("10_ScanNothingFound", func(t *testing.T) {
				ctx.camera.load(image.NewGray(image.Rect(0, 0, 320, 240)))

				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/scans", map[string]any{
					"timeout_seconds": 1,
				})
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})

			t.Run("11_CheckOut", func(t *testing.T) {
				path := fmt.Sprintf("/v1/visitors/%d/checkout", registered.ID)

				resp, body := ctx.makeRequest(t, http.MethodPost, path, nil)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
				assert.Contains(t, string(body), `"status":"checked_out"`)

				resp, _ = ctx.makeRequest(t, http.MethodPost, path, nil)
				assert.Equal(t, http.StatusConflict, resp.StatusCode)
			})

			t.Run("12_ListFlagsUnreadableRows", func(t *testing.T) {
				brokenID := testutil.CreateTestVisitor(t, ctx.db, ctx.dbDriver, "Broken Row")

				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/visitors?limit=10", nil)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var list dto.ListVisitorsResponse
				require.NoError(t, json.Unmarshal(body, &list))
				require.Len(t, list.Data, 2)

				// Newest first
				assert.Equal(t, brokenID, list.Data[0].ID)
				assert.True(t, list.Data[0].DecryptionFailed)
				assert.Empty(t, list.Data[0].Phone)
				assert.Equal(t, registered.ID, list.Data[1].ID)
				assert.False(t, list.Data[1].DecryptionFailed)
			})

			t.Run("13_RegisterInvalidPhone", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/visitors", map[string]string{
					"name":    "Asha Rao",
					"phone":   "12",
					"purpose": "Meeting",
				})
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			})
		})
	}
}

func TestIntegration_LegacyMigration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	for _, tc := range databases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			codec, err := ctx.container.Codec()
			require.NoError(t, err)
			fieldCodec, ok := codec.(*cryptoService.FieldCodec)
			require.True(t, ok)

			legacyPhone, err := fieldCodec.SealLegacy("9876543210")
			require.NoError(t, err)
			legacyPurpose, err := fieldCodec.SealLegacy("Meeting")
			require.NoError(t, err)

			id := testutil.CreateTestVisitor(t, ctx.db, ctx.dbDriver, "Legacy Row")
			update := `UPDATE visitors SET encrypted_phone = $1, encrypted_purpose = $2 WHERE id = $3`
			if ctx.dbDriver == "mysql" {
				update = `UPDATE visitors SET encrypted_phone = ?, encrypted_purpose = ? WHERE id = ?`
			}
			_, err = ctx.db.Exec(update, legacyPhone, legacyPurpose, id)
			require.NoError(t, err)

			visitorUseCase, err := ctx.container.VisitorUseCase()
			require.NoError(t, err)

			stats, err := visitorUseCase.MigrateLegacyEnvelopes(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, stats.TotalRows)
			assert.Equal(t, 1, stats.RowsMigrated)
			assert.Equal(t, 2, stats.FieldsMigrated)
			assert.Zero(t, stats.RowsFailed)

			// A second pass finds nothing left to migrate
			stats, err = visitorUseCase.MigrateLegacyEnvelopes(context.Background())
			require.NoError(t, err)
			assert.Zero(t, stats.RowsMigrated)

			visitor, err := visitorUseCase.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, "9876543210", visitor.Phone)
			assert.Equal(t, "Meeting", visitor.Purpose)
		})
	}
}
