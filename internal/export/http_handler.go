package export

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/domain"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHTTPHandler serves roster downloads. Routes:
//
//	GET /exports/roster?payerPubId=<id>
func NewHTTPHandler(service *Service, logger *zap.Logger) http.Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || !strings.HasSuffix(r.URL.Path, "/roster") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	h.handleRoster(w, r)
}

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	payerPubID := strings.TrimSpace(r.URL.Query().Get("payerPubId"))
	if payerPubID == "" {
		http.Error(w, "payerPubId is required", http.StatusBadRequest)
		return
	}
	req := auth.Requirement{
		Types: []domain.UserType{
			domain.UserTypeBPO, domain.UserTypePayer,
			domain.UserTypePhysician, domain.UserTypeVendor,
		},
		Roles:      []domain.UserRole{domain.UserRoleRead, domain.UserRoleAdd, domain.UserRoleEdit},
		PayerPubID: payerPubID,
	}
	if _, err := auth.RequireUser(r.Context(), req); err != nil {
		var authErr *domain.AuthorizationError
		if errors.As(err, &authErr) {
			http.Error(w, authErr.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	file, err := h.service.BuildRoster(r.Context(), payerPubID)
	if err != nil {
		h.logger.Error("roster build failed", zap.String("payerPubId", payerPubID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	filename := h.service.FileName(payerPubID)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := file.WriteTo(w); err != nil {
		// Headers are already out; all that is left is to log the failure.
		h.logger.Warn("roster write aborted", zap.String("payerPubId", payerPubID), zap.Error(err))
	}
}
