package ui

import (
	"encoding/json"
	"net/http"

	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/response"
)

// maxBodyBytes limita o corpo das requisições JSON.
const maxBodyBytes = 1_048_576 // 1 MB

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &response.ErrorResponse{Error: message})
}

func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(data)
}
