package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/scmmishra/inorder/internal/tracking"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Fields are validated in declaration order, so a request that is missing
// both reports the id first.
type trackRequest struct {
	ID   int64  `json:"id" validate:"required,gt=0"`
	Type string `json:"type" validate:"oneof=author series"`
}

// trackError maps the first failed rule to the message the client sees.
func trackError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "ID" && fe.Tag() == "required":
		return "missing id"
	case fe.Field() == "ID":
		return "invalid id"
	default:
		return "invalid type"
	}
}

// Track acknowledges a click as soon as it is queued. Whether the counter
// write later succeeds is not the caller's concern.
func (h *APIHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, trackError(err), http.StatusBadRequest)
		return
	}

	kind, _ := tracking.ParseKind(req.Type)
	SubmitClick(h.Clicks, h.Bots, r, kind, req.ID)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
