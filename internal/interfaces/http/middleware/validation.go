package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/dripnest/storefront/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors renders binding errors as one ", "-joined message
func FormatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, getValidationMessage(e))
		}
		return strings.Join(messages, ", ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return label(typeErr.Field[strings.LastIndex(typeErr.Field, ".")+1:]) + " has an invalid type"
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "Invalid request body"
	}
	return "Invalid request: " + err.Error()
}

// HandleValidationError answers 400 with the joined validation messages
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeValidation, FormatValidationErrors(err)))
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	field := label(e.Field())
	kind := e.Kind()

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Please provide a valid email"
	case "min":
		switch kind {
		case reflect.String:
			return field + " must be at least " + e.Param() + " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			return field + " must contain at least " + e.Param() + " items"
		}
		return field + " must be at least " + e.Param()
	case "max":
		switch kind {
		case reflect.String:
			return field + " cannot exceed " + e.Param() + " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			return field + " cannot contain more than " + e.Param() + " items"
		}
		return field + " cannot exceed " + e.Param()
	case "uuid":
		return field + " must be a valid id"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "lte":
		return field + " must be less than or equal to " + e.Param()
	case "gt":
		return field + " must be greater than " + e.Param()
	case "lt":
		return field + " must be less than " + e.Param()
	case "url":
		return field + " must be a valid URL"
	default:
		return field + " is invalid"
	}
}

// label turns a JSON field name such as zipCode into "Zip code"
func label(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
