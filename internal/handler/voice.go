package handler

import (
	"encoding/json"
	"net/http"

	"github.com/planweave/planweave/internal/domain"
)

// voiceParseRequest is the body of POST /voice/parse.
type voiceParseRequest struct {
	Transcript string `json:"transcript"`
}

// voiceParseResponse pairs the extracted fields with the original transcript
// so clients can show what was understood next to what was said.
type voiceParseResponse struct {
	Transcript string             `json:"transcript"`
	Fields     domain.TripRequest `json:"fields"`
}

// ParseVoice handles POST /voice/parse.
// Extraction never fails on intelligible input; fields the transcript does
// not specify are simply absent from the response.
func (s *Server) ParseVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	fields, err := s.voice.Parse(r.Context(), req.Transcript)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, voiceParseResponse{Transcript: req.Transcript, Fields: fields})
}
