package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// JSON writes v as a JSON response body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	log.Error().Err(err).Msg(msg)
	JSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		log.Warn().Err(err).Str("message", msg).Msg("bad request")
	} else {
		log.Warn().Str("message", msg).Msg("bad request")
	}
	JSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		log.Warn().Err(err).Str("message", msg).Msg("not found")
	} else {
		log.Warn().Str("message", msg).Msg("not found")
	}
	JSON(w, http.StatusNotFound, errorBody{Error: msg})
}
