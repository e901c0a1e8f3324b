package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/taxii"
)

// statusClientClosedRequest is recorded when the client went away before a
// response could be written.
const statusClientClosedRequest = 499

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrPageOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidArgument),
		errors.Is(err, common.ErrMissingCollectionID):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotAcceptable):
		return http.StatusNotAcceptable
	default:
		return http.StatusInternalServerError
	}
}

func titleFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusBadRequest:
		return "Invalid request"
	case http.StatusNotAcceptable:
		return "Unsupported media type requested"
	case http.StatusMethodNotAllowed:
		return "Method not allowed"
	default:
		return "Internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", common.TAXIIMediaType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as a TAXII error message. Nothing is written when
// the request context is already done.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	log := loggerFrom(ctx)

	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		log.Info(ctx, "Request abandoned by client", "error", err)
		if rec, ok := w.(*statusRecorder); ok {
			rec.status = statusClientClosedRequest
		}
		return
	}

	status := statusFor(err)
	body := &taxii.Error{Title: titleFor(status), HTTPStatus: strconv.Itoa(status)}
	if status == http.StatusInternalServerError {
		log.Error(ctx, "Request failed", "error", err)
	} else {
		body.Description = err.Error()
		log.Debug(ctx, "Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

// acceptable reports whether an Accept header admits TAXII 2.1 JSON.
func acceptable(header string) bool {
	if strings.TrimSpace(header) == "" {
		return true
	}
	for _, part := range strings.Split(header, ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case "*/*", "application/*":
			return true
		case "application/taxii+json":
			if v, ok := params["version"]; !ok || v == "2.1" {
				return true
			}
		}
	}
	return false
}
