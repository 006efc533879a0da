package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/relayhq/relay-server/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"error"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func WriteError(w http.ResponseWriter, status int, requestID, code, message string) {
	meta := map[string]string{}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	WriteJSON(w, status, &ErrorEnvelope{Code: code, Message: message, Meta: meta})
}

// WriteServiceError maps a service-layer error onto the wire. Anything that
// is not a *serrors.ServiceError becomes an opaque 500.
func WriteServiceError(w http.ResponseWriter, requestID string, err error) {
	var svcErr *serrors.ServiceError
	if errors.As(err, &svcErr) {
		WriteError(w, svcErr.Status, requestID, svcErr.Code, svcErr.Message)
		return
	}
	WriteError(w, http.StatusInternalServerError, requestID, "INTERNAL", err.Error())
}

// DecodeJSON decodes a request body into dst, rejecting unknown keys so a
// mistyped field never turns into a silent no-op write.
func DecodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}
