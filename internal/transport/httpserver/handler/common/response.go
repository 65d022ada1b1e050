package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"planner-go/internal/domain/constraint"
	projectsdomain "planner-go/internal/domain/projects"
	teamsdomain "planner-go/internal/domain/teams"
	timesheetsdomain "planner-go/internal/domain/timesheets"
	"planner-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: int64(len(items))}
}

var notFoundCodes = []struct {
	err  error
	code string
}{
	{projectsdomain.ErrManagerNotFound, "manager_not_found"},
	{projectsdomain.ErrStateNotFound, "state_not_found"},
	{projectsdomain.ErrProjectNotFound, "project_not_found"},
	{teamsdomain.ErrTechNotFound, "tech_not_found"},
	{teamsdomain.ErrTeamNotFound, "team_not_found"},
	{teamsdomain.ErrMemberNotFound, "member_not_found"},
	{timesheetsdomain.ErrPlanNotFound, "time_plan_not_found"},
	{timesheetsdomain.ErrLogNotFound, "time_log_not_found"},
}

var validationCodes = []struct {
	err  error
	code string
}{
	{constraint.ErrInvalidWeekday, "invalid_weekday"},
	{constraint.ErrNegativeValue, "negative_value"},
	{constraint.ErrNameRequired, "name_required"},
	{constraint.ErrNameTooLong, "name_too_long"},
}

// WriteServiceError maps a domain failure onto the error envelope. Unknown
// errors are logged and reported as 500.
func WriteServiceError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	field := constraint.FieldOf(err)

	for _, item := range validationCodes {
		if errors.Is(err, item.err) {
			log.BusinessError(op+": invalid input", err, args...)
			writeFieldError(w, http.StatusBadRequest, item.code, err.Error(), field)
			return
		}
	}

	switch {
	case errors.Is(err, constraint.ErrDuplicateEntry):
		log.BusinessError(op+": duplicate entry", err, args...)
		writeFieldError(w, http.StatusConflict, "duplicate_entry", err.Error(), field)
		return
	case errors.Is(err, constraint.ErrReferenceInUse):
		log.BusinessError(op+": reference in use", err, args...)
		writeFieldError(w, http.StatusConflict, "reference_in_use", err.Error(), field)
		return
	}

	for _, item := range notFoundCodes {
		if !errors.Is(err, item.err) {
			continue
		}
		if field != "" {
			log.BusinessError(op+": invalid reference", err, args...)
			writeFieldError(w, http.StatusBadRequest, "invalid_reference", err.Error(), field)
			return
		}
		log.BusinessError(op+": not found", err, args...)
		writeError(w, http.StatusNotFound, item.code, item.err.Error())
		return
	}

	log.InternalError(op+": failed", err, args...)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeFieldError(w, status, code, message, "")
}

func writeFieldError(w http.ResponseWriter, status int, code, message, field string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message, Field: field}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteFieldError(w http.ResponseWriter, status int, code, message, field string) {
	writeFieldError(w, status, code, message, field)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}
