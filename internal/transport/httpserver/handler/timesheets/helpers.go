package timesheets

import (
	"net/http"

	commonhandler "planner-go/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, op string, err error, args ...any) {
	commonhandler.WriteServiceError(w, h.log, op, err, args...)
}

func writeFieldError(w http.ResponseWriter, status int, code, message, field string) {
	commonhandler.WriteFieldError(w, status, code, message, field)
}
