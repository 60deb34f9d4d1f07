// Package render shapes every HTTP response as the uniform result envelope:
// a success flag with data, or a machine readable (code, message) failure.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Failure codes owned by the transport layer itself. Domain codes live in
// apperrors and are passed through by the handlers.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
)

var validate = validator.New()

func init() {
	// Report field errors with json tag names instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success renders a success envelope with status 200
func Success(w http.ResponseWriter, data any) {
	jsonWithStatus(w, Envelope{Success: true, Data: data}, http.StatusOK)
}

// Fail renders a failure envelope with the given code and message
func Fail(w http.ResponseWriter, code string, message string, status int) {
	jsonWithStatus(w, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	}, status)
}

func decodeError(w http.ResponseWriter, err error) {
	message := "Failed to parse JSON"

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		message = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	}

	Fail(w, CodeInvalidRequest, message, http.StatusBadRequest)
}

func validationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	body := &ErrorBody{
		Code:    CodeInvalidRequest,
		Message: "Request validation failed",
		Fields:  make(map[string]string, len(errs)),
	}

	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "max":
			message = fmt.Sprintf("Value is too long (maximum %s)", fieldError.Param())
		default:
			message = "Invalid value"
		}

		body.Fields[fieldError.Field()] = message
	}

	jsonWithStatus(w, Envelope{Success: false, Error: body}, http.StatusBadRequest)
}

// BindAndValidate decodes the JSON request body into T and validates it with
// struct tags. On failure the error envelope is already written; the caller
// only has to return.
func BindAndValidate[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		decodeError(w, err)
		return value, err
	}

	if err := validate.Struct(value); err != nil {
		// Cast is safe, T is always a struct with validate tags
		errs := err.(validator.ValidationErrors)
		validationErrors(w, errs)
		return value, err
	}

	return value, nil
}

// jsonWithStatus encodes into a buffer first so a marshalling error can still
// change the status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
