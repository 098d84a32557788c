package response

import "fmt"

// Business error codes
const (
	// generic failure
	Fail ResponseCode = 0
	// request could not be parsed
	ParseError ResponseCode = 1
	// request parsed but a parameter is invalid
	InvalidParameter ResponseCode = 2
	// missing or invalid credentials
	Unauthorized ResponseCode = 3
	// authenticated but not allowed
	Forbidden ResponseCode = 4
	// target row does not exist
	NotFound ResponseCode = 5
	// state conflict (duplicate, already confirmed, ...)
	Conflict ResponseCode = 6
	// no seats left in the course
	CourseFull ResponseCode = 7
)

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}
