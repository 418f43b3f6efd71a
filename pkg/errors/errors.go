package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNoTitleForItem             Code = "NO_TITLE_FOR_ITEM"
	CodeItemNotFound               Code = "ITEM_NOT_FOUND"
	CodeCategoryAlreadyExists      Code = "CATEGORY_ALREADY_EXISTS"
	CodeNoNameForNewCategory       Code = "NO_NAME_FOR_NEW_CATEGORY"
	CodeCategoryNotFound           Code = "CATEGORY_NOT_FOUND"
	CodeIncorrectValueForAttribute Code = "INCORRECT_VALUE_FOR_ATTRIBUTE"
	CodeCustomerNotFound           Code = "CUSTOMER_NOT_FOUND"
	CodeOrderNotFound              Code = "ORDER_NOT_FOUND"
	CodeIdentifierExhausted        Code = "IDENTIFIER_EXHAUSTED"
	CodeValidation                 Code = "VALIDATION_ERROR"
	CodeStateConflict              Code = "STATE_CONFLICT"
	CodeInternal                   Code = "INTERNAL_ERROR"
	CodeDependency                 Code = "DEPENDENCY_ERROR"
)

// Metadata drives how each error kind is rendered at the boundary. WireCode is
// the stable numeric code clients key on; kinds without one serialize as null.
type Metadata struct {
	WireCode      *int
	HTTPStatus    int
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeNoTitleForItem: {
		WireCode:      wire(1),
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "item title is required",
	},
	CodeItemNotFound: {
		WireCode:      wire(2),
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "requested item not found",
	},
	CodeCategoryAlreadyExists: {
		WireCode:      wire(3),
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "category with this slug already exists",
	},
	CodeNoNameForNewCategory: {
		WireCode:      wire(4),
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "name for the new category is required",
	},
	CodeCategoryNotFound: {
		WireCode:      wire(5),
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "item category not found",
	},
	CodeIncorrectValueForAttribute: {
		WireCode:      wire(6),
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "incorrect value for attribute",
	},
	CodeCustomerNotFound: {
		WireCode:      wire(7),
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "requested customer not found",
	},
	CodeOrderNotFound: {
		WireCode:      wire(8),
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "requested order not found",
	},
	CodeIdentifierExhausted: {
		WireCode:      wire(9),
		HTTPStatus:    http.StatusServiceUnavailable,
		Retryable:     true,
		PublicMessage: "identifier allocation retries exhausted",
	},
	CodeValidation: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "validation failed",
	},
	CodeStateConflict: {
		HTTPStatus:    http.StatusUnprocessableEntity,
		PublicMessage: "state transition disallowed",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
	CodeDependency: {
		HTTPStatus:    http.StatusServiceUnavailable,
		Retryable:     true,
		PublicMessage: "dependency unavailable",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

func wire(code int) *int {
	return &code
}

type Error struct {
	code    Code
	message string
	cause   error
	details any
}

// WithDetails attaches a structured payload that helps clients pinpoint the
// problem, typically a field-to-message map.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code carried anywhere in err's chain. Errors without a
// domain code count as internal.
func CodeOf(err error) Code {
	return As(err).Code()
}
