package http

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	credentialMocks "github.com/lumenpass/lumenpass/internal/credential/usecase/mocks"
	visitorMocks "github.com/lumenpass/lumenpass/internal/visitor/usecase/mocks"
)

const testScanTimeout = 30 * time.Second

// setupTestVisitorHandler creates a test handler with mocked dependencies.
func setupTestVisitorHandler(
	t *testing.T,
) (*VisitorHandler, *visitorMocks.MockVisitorUseCase, *credentialMocks.MockCredentialUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	visitors := &visitorMocks.MockVisitorUseCase{}
	credentials := &credentialMocks.MockCredentialUseCase{}
	t.Cleanup(func() {
		visitors.AssertExpectations(t)
		credentials.AssertExpectations(t)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewVisitorHandler(visitors, credentials, testScanTimeout, logger), visitors, credentials
}

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// createUploadContext creates a test Gin context carrying a multipart image upload.
func createUploadContext(
	t *testing.T,
	path string,
	image []byte,
	fields map[string]string,
) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if image != nil {
		part, err := writer.CreateFormFile("image", "pass.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req

	return c, w
}

// pngDeclaringSize returns a 1x1 PNG whose header claims width x height.
func pngDeclaringSize(t *testing.T, width, height uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))

	b := buf.Bytes()
	binary.BigEndian.PutUint32(b[16:20], width)
	binary.BigEndian.PutUint32(b[20:24], height)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}
