package dto

import (
	"errors"
	"fmt"
	"strings"

	res "github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(200, res.SuccessResponse(data))
}

func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	c.JSON(200, res.ErrorResponse(err.Code, err.Msg))
}

// Error writes any service error; non-business errors become a generic failure
func Error(c *gin.Context, err error) {
	var be *res.BusinessError
	if errors.As(err, &be) {
		ErrorResponse(c, be)
		return
	}
	_ = c.Error(err)
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.Fail),
		res.WithErrorMessage("internal error"),
	))
}

// ValidationErrorResponse reports the first failed binding rule using the JSON field name
func ValidationErrorResponse(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		firstErr := validationErrs[0]
		jsonField := getJSONFieldName(firstErr)

		var message string
		switch firstErr.Tag() {
		case "required":
			message = fmt.Sprintf("field '%s' is required", jsonField)
		case "max":
			message = fmt.Sprintf("field '%s' must be at most %s", jsonField, firstErr.Param())
		case "min":
			message = fmt.Sprintf("field '%s' must be at least %s", jsonField, firstErr.Param())
		case "email":
			message = fmt.Sprintf("field '%s' must be an email address", jsonField)
		case "oneof":
			message = fmt.Sprintf("field '%s' must be one of: %s", jsonField, firstErr.Param())
		default:
			message = fmt.Sprintf("field '%s' failed validation: %s", jsonField, firstErr.Tag())
		}

		ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.ParseError),
			res.WithErrorMessage(message),
		))
		return
	}

	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("invalid parameters: "+err.Error()),
	))
}

func getJSONFieldName(fe validator.FieldError) string {
	field := fe.StructNamespace()
	if strings.Contains(field, ".") {
		parts := strings.Split(field, ".")
		return toSnakeCase(parts[len(parts)-1])
	}
	return toSnakeCase(fe.Field())
}

// toSnakeCase PascalCase -> snake_case; keeps acronyms like ID together
func toSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if i > 0 && upper {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
