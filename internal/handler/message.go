package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mailrelay/mailrelay/internal/email"
	"github.com/mailrelay/mailrelay/internal/source"
)

// SendRequest selects the message source to dispatch
type SendRequest struct {
	Source string `json:"source"`
	Ref    string `json:"ref"`
}

// SendResponse carries the dispatch status string
type SendResponse struct {
	Status string `json:"status"`
}

// maxRequestBytes caps the size of a send request body
const maxRequestBytes = 1 << 20

// SendMessage builds the requested source and dispatches its body
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.Source == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "source is required")
		return
	}

	src, err := h.sources.New(req.Source, req.Ref)
	if err != nil {
		h.writeDispatchError(w, err)
		return
	}

	status, err := h.dispatcher.SendMessage(r.Context(), src)
	if err != nil {
		h.writeDispatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SendResponse{Status: status})
}

func (h *Handler) writeDispatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, source.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, "unknown_source", err.Error())
	case errors.Is(err, source.ErrKindDisabled):
		writeError(w, http.StatusForbidden, "source_disabled", err.Error())
	case errors.Is(err, source.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "file_not_found", err.Error())
	case errors.Is(err, source.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, "message_not_found", err.Error())
	case errors.Is(err, source.ErrEmptyBody):
		writeError(w, http.StatusUnprocessableEntity, "empty_body", err.Error())
	case errors.Is(err, source.ErrConnectionFailure):
		writeError(w, http.StatusBadGateway, "connection_failure", err.Error())
	case errors.Is(err, email.ErrMissingRecipient):
		writeError(w, http.StatusInternalServerError, "missing_recipient", err.Error())
	default:
		h.log.Error().Err(err).Msg("dispatch failed")
		writeError(w, http.StatusBadGateway, "send_failed", "The message could not be sent")
	}
}
