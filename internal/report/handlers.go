package report

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/sales-report/internal/common"
	"github.com/noah-isme/sales-report/internal/dataset"
	"github.com/noah-isme/sales-report/internal/sales"
)

// Handler exposes report endpoints.
type Handler struct {
	Svc *Service
}

// Routes mounts the report endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/sellers", h.Sellers)
}

// Sellers computes the seller report for the dataset posted in the body.
func (h *Handler) Sellers(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "REPORT_NOT_CONFIGURED", "report service not configured", nil)
		return
	}
	top := sales.DefaultTopProducts
	if raw := strings.TrimSpace(r.URL.Query().Get("top")); raw != "" {
		var ok bool
		if top, ok = common.AtoiInRange(raw, 1, sales.DefaultTopProducts); !ok {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "top must be between 1 and 10", nil)
			return
		}
	}

	ds, err := dataset.Decode(r.Body, dataset.FormatJSON)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
			return
		}
		common.JSONError(w, http.StatusBadRequest, "INVALID_DATA", err.Error(), nil)
		return
	}
	if err := dataset.Check(ds); err != nil {
		common.WriteAppError(w, toAppError(err))
		return
	}

	res, err := h.Svc.Generate(r.Context(), ds)
	if err != nil {
		common.WriteAppError(w, toAppError(err))
		return
	}
	res.Reports = trimTopProducts(res.Reports, top)
	common.JSON(w, http.StatusOK, map[string]any{"data": res})
}

func toAppError(err error) *common.AppError {
	switch {
	case errors.Is(err, sales.ErrInvalidData):
		return common.NewAppError("INVALID_DATA", err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, sales.ErrOrphanRecord):
		return common.NewAppError("ORPHAN_RECORD", err.Error(), http.StatusUnprocessableEntity, err)
	case errors.Is(err, sales.ErrMissingPolicy):
		return common.NewAppError("POLICY_NOT_CONFIGURED", err.Error(), http.StatusInternalServerError, err)
	default:
		return common.AsAppError(err, "REPORT_ERROR")
	}
}

// trimTopProducts returns a copy of reports with each top product list cut to limit.
func trimTopProducts(reports []sales.SellerReport, limit int) []sales.SellerReport {
	out := make([]sales.SellerReport, len(reports))
	for i, rep := range reports {
		if len(rep.TopProducts) > limit {
			rep.TopProducts = rep.TopProducts[:limit]
		}
		out[i] = rep
	}
	return out
}
