package common

import (
	"context"
	"encoding/json"
	"net/http"

	"blog/pkg/logger"
)

// Msg is the envelope of every JSON response: {"message": ...}.
type Msg struct {
	Message interface{} `json:"message"`
}

var responseFailed = []byte(`{"message":"response failed"}`)

func WriteMsg(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, Msg{msg})
}

// WriteData wraps data into the message envelope and writes it with status 200.
func WriteData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Msg{data})
}

// WriteRespJSON writes data as is, without the envelope.
func WriteRespJSON(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	resp, err := json.Marshal(data)
	if err != nil {
		logger.Log(context.Background()).Errorf("common: JSON marshaling failed: %v", err)
		code, resp = http.StatusInternalServerError, responseFailed
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(resp); err != nil {
		logger.Log(context.Background()).Errorf("common: failed writing response: %v", err)
	}
}
