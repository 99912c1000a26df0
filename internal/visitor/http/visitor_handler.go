// Package http provides HTTP handlers for visitor registration, lookup and pass verification.
package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	credentialService "github.com/lumenpass/lumenpass/internal/credential/service"
	credentialUseCase "github.com/lumenpass/lumenpass/internal/credential/usecase"
	"github.com/lumenpass/lumenpass/internal/httputil"
	customValidation "github.com/lumenpass/lumenpass/internal/validation"
	"github.com/lumenpass/lumenpass/internal/visitor/http/dto"
	visitorUseCase "github.com/lumenpass/lumenpass/internal/visitor/usecase"
)

// MaxUploadBytes bounds the size of an uploaded pass image.
const MaxUploadBytes = 10 << 20

// VisitorHandler handles HTTP requests for visitors and their passes.
type VisitorHandler struct {
	visitorUseCase    visitorUseCase.VisitorUseCase
	credentialUseCase credentialUseCase.CredentialUseCase
	scanTimeout       time.Duration
	logger            *slog.Logger
}

// NewVisitorHandler creates a new visitor handler with required dependencies.
// scanTimeout is used when a scan request does not name its own.
func NewVisitorHandler(
	visitorUseCase visitorUseCase.VisitorUseCase,
	credentialUseCase credentialUseCase.CredentialUseCase,
	scanTimeout time.Duration,
	logger *slog.Logger,
) *VisitorHandler {
	return &VisitorHandler{
		visitorUseCase:    visitorUseCase,
		credentialUseCase: credentialUseCase,
		scanTimeout:       scanTimeout,
		logger:            logger,
	}
}

// RegisterHandler registers a visitor and issues their pass.
// POST /v1/visitors
// Returns 201 Created with the visitor, its token and the pass image.
func (h *VisitorHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterVisitorRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := req.ToInput()
	registered, err := h.visitorUseCase.Register(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Location", fmt.Sprintf("/v1/visitors/%d", registered.Visitor.ID))
	c.JSON(http.StatusCreated, dto.MapRegisteredVisitorToResponse(registered, input))
}

// ListHandler lists visitors newest first with pagination.
// GET /v1/visitors?offset=0&limit=50
// Returns 200 OK. Rows that could not be decrypted carry decryption_failed.
func (h *VisitorHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	visitors, err := h.visitorUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVisitorsToListResponse(visitors))
}

// GetHandler looks up one visitor by id.
// GET /v1/visitors/:id
// Returns 200 OK, 404 when the visitor does not exist, 422 when it cannot be decrypted.
func (h *VisitorHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	visitor, err := h.visitorUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecryptedVisitorToResponse(visitor))
}

// CheckOutHandler marks a visitor as checked out.
// POST /v1/visitors/:id/checkout
// Returns 200 OK, or 409 Conflict when the visitor already left.
func (h *VisitorHandler) CheckOutHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	visitor, err := h.visitorUseCase.CheckOut(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVisitorToResponse(visitor))
}

// CredentialPNGHandler serves the pass image of a stored visitor.
// GET /v1/visitors/:id/credential.png
func (h *VisitorHandler) CredentialPNGHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	png, err := h.visitorUseCase.CredentialPNG(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// VerifyHandler verifies a pass token typed or pasted by an operator.
// POST /v1/credentials/verify
func (h *VisitorHandler) VerifyHandler(c *gin.Context) {
	var req dto.VerifyCredentialRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	visitor, err := h.visitorUseCase.VerifyToken(c.Request.Context(), req.Token, req.VerifiedBy)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecryptedVisitorToResponse(visitor))
}

// DecodeHandler reads a pass from an uploaded image and verifies it.
// POST /v1/credentials/decode (multipart form: image, verified_by)
// Returns 422 when the image holds no readable pass.
func (h *VisitorHandler) DecodeHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	file, err := c.FormFile("image")
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("image file is required: %w", err), h.logger)
		return
	}

	f, err := file.Open()
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("failed to read image: %w", err), h.logger)
		return
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := credentialService.ReadImage(f)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	token, err := h.credentialUseCase.DecodeImage(ctx, img)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	visitor, err := h.visitorUseCase.VerifyToken(ctx, token, c.PostForm("verified_by"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecryptedVisitorToResponse(visitor))
}

// ScanHandler reads a pass from the local camera and verifies it.
// POST /v1/scans
// Returns 404 when the scan ends without a pass, 409 when another scan is running and
// 503 when no camera is available.
func (h *VisitorHandler) ScanHandler(c *gin.Context) {
	var req dto.ScanRequest

	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	timeout := h.scanTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}

	visitor, err := h.visitorUseCase.ScanAndVerify(c.Request.Context(), timeout, req.VerifiedBy)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecryptedVisitorToResponse(visitor))
}

func (h *VisitorHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid visitor id: must be a positive integer"), h.logger)
		return 0, false
	}
	return id, true
}
