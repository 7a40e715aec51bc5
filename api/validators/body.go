package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes is the default cap on JSON request bodies. Routes that accept
// embedded media pass their own limit to DecodeJSONBodyLimit.
const MaxBodyBytes = 1 << 20

// MaxItemBodyBytes caps catalog item bodies, which may embed image and video
// data URIs.
const MaxItemBodyBytes = 40 << 20

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}()

// DecodeJSONBody decodes exactly one JSON value into dest, rejecting unknown
// fields, then runs its validate tags.
func DecodeJSONBody(r *http.Request, dest any) error {
	return DecodeJSONBodyLimit(r, dest, MaxBodyBytes)
}

// DecodeJSONBodyLimit is DecodeJSONBody with a caller-chosen size cap.
func DecodeJSONBodyLimit(r *http.Request, dest any, limit int64) error {
	if limit <= 0 {
		limit = MaxBodyBytes
	}
	body := http.MaxBytesReader(nil, r.Body, limit)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must hold a single JSON object")
	}
	return ValidateStruct(dest)
}

// ValidateStruct runs the tags on a value that did not come from a body.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func decodeError(err error) error {
	var tooBig *http.MaxBytesError
	msg := "invalid request body"
	switch {
	case errors.Is(err, io.EOF):
		msg = "request body is required"
	case errors.As(err, &tooBig):
		msg = fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg).WithDetails(map[string]any{"error": err.Error()})
}

func describe(fe validator.FieldError) string {
	p := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url", "uri", "http_url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + p
	case "max":
		return "must be at most " + p
	case "gt":
		return "must be greater than " + p
	case "gte":
		return "must be " + p + " or more"
	case "lt":
		return "must be less than " + p
	case "oneof":
		return "must be one of " + p
	}
	return "is invalid"
}
