package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"task-manager/internal/form"
	"task-manager/internal/service"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

func detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// seeOther answers a successful write with a redirect to the page the client
// should load next. The body describes what happened.
func seeOther(w http.ResponseWriter, location string, v any) {
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusSeeOther, v)
}

// writeError maps service errors onto HTTP responses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]form.Errors{"errors": verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, detail("Not found."))
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, detail(err.Error()))
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, detail(err.Error()))
	default:
		s.logger.Error(r.Context(), "request failed",
			"request_id", infoFrom(r.Context()).ID,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, detail("Internal server error."))
	}
}

// decodeInput fills dst from a JSON body, or calls fromForm with the parsed
// form values for urlencoded and multipart bodies.
func decodeInput(w http.ResponseWriter, r *http.Request, dst any, fromForm func(url.Values) error) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
		}
		return nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
	} else if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return fromForm(r.PostForm)
}

// pathID parses the {id} wildcard. Anything but a positive integer is
// reported as not found, as if the route had not matched.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrNotFound
	}
	return uint(id), nil
}
