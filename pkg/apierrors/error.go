package apierrors

import (
	"fmt"

	"taskcraftify/pkg/translator"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code and message.
type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Reason carries the rejected mutation's cause when a rollback happened.
	Reason string `json:"reason,omitempty"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	return JsonErr{ErrDetails: Err{Code: code, Message: message}}
}

// CreateErrorWithReason is CreateError plus the underlying cause.
func CreateErrorWithReason(code int, msgKey string, lang string, reason error) JsonErr {
	out := CreateError(code, msgKey, lang)
	if reason != nil {
		out.ErrDetails.Reason = reason.Error()
	}
	return out
}

// GetTransErrorMsg retrieves the translated error message.
func GetTransErrorMsg(msgKey string, lang string) string {
	return translator.Localize(msgKey, lang, nil)
}
