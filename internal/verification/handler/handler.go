package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rentora/rentora-backend/internal/verification/domain"
	"github.com/rentora/rentora-backend/pkg/httputil"
	"github.com/rentora/rentora-backend/pkg/logger"
)

const (
	// maxFileSize bounds each uploaded card image
	maxFileSize = 10 << 20 // 10MB
	// maxRequestSize bounds the whole multipart request
	maxRequestSize = 20 << 20 // 20MB
)

// Verifier runs verification attempts and looks up past ones
type Verifier interface {
	Verify(ctx context.Context, userID string, front, back []byte) (*domain.Result, error)
	Get(ctx context.Context, id string) (*domain.VerificationRecord, error)
}

// Handler handles HTTP requests for identity verification
type Handler struct {
	service Verifier
	log     *logger.Logger
}

// NewHandler creates a new verification handler
func NewHandler(svc Verifier, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		log:     log,
	}
}

type verifyRequest struct {
	UserID string `validate:"required"`
}

// VerifyIC handles POST /verify/ic
// Accepts multipart form with:
// - userId: the account requesting verification
// - front: image of the ID card front
// - back: image of the ID card back
func (h *Handler) VerifyIC(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	if err := r.ParseMultipartForm(maxRequestSize); err != nil {
		httputil.BadRequest(w, "request too large or invalid multipart form")
		return
	}

	userID := r.FormValue("userId")
	if err := httputil.Validate(verifyRequest{UserID: userID}); err != nil {
		httputil.BadRequest(w, "userId is required")
		return
	}

	front, err := h.readImageFile(r, "front")
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	back, err := h.readImageFile(r, "back")
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.Verify(r.Context(), userID, front, back)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("verification attempt failed")
		httputil.Error(w, err)
		return
	}

	// FAILED is a decision, not an error: the attempt completed
	httputil.JSON(w, http.StatusOK, result)
}

// GetVerification handles GET /verify/ic/{id}
// Returns the stored verification record
func (h *Handler) GetVerification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.BadRequest(w, "missing id parameter")
		return
	}

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, rec)
}

// readImageFile pulls one named image out of the multipart form and
// enforces the per-file size limit.
func (h *Handler) readImageFile(r *http.Request, field string) ([]byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %s image in request", field)
	}
	defer file.Close()

	if header.Size > maxFileSize {
		return nil, fmt.Errorf("%s image exceeds the %dMB limit", field, maxFileSize>>20)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s image", field)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("%s image exceeds the %dMB limit", field, maxFileSize>>20)
	}

	return data, nil
}
