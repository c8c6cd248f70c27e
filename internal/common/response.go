package common

import (
	"encoding/json"
	"net/http"
)

// Development toggles inclusion of error detail in 500 responses. Set once
// at startup from config.
var Development bool

// Envelope is the uniform response body: {status, message?, data?}.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

func RespondWithData(w http.ResponseWriter, code int, data interface{}) {
	writeJSON(w, code, Envelope{Status: "success", Data: data})
}

func RespondWithMessage(w http.ResponseWriter, code int, message string, data interface{}) {
	writeJSON(w, code, Envelope{Status: "success", Message: message, Data: data})
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Envelope{Status: "error", Message: message})
}

// RespondWithInternalError hides the underlying error from clients unless
// running in development, where it is exposed in the stack field.
func RespondWithInternalError(w http.ResponseWriter, err error) {
	env := Envelope{Status: "error", Message: "Internal Server Error"}
	if Development && err != nil {
		env.Stack = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, env)
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
