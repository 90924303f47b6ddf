package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Message pairs a stable machine-readable code with a human-readable text.
type Message struct {
	Code string
	Text string
}

// Error catalog. Codes are stable and must not be renumbered.
var (
	MsgUnknownError           = Message{"E000001", "Unknown Error: %s"}
	MsgInvalidPayload         = Message{"E000002", "Invalid payload: %s"}
	MsgEmptyAPIKey            = Message{"E0000011", "Please provide api key"}
	MsgInvalidAPIKey          = Message{"E0000012", "Invalid api key"}
	MsgForbiddenAccess        = Message{"E0000013", "Forbidden access"}
	MsgFailedToUpdateAPIKey   = Message{"E0000018", "Failed to update api key"}
	MsgFailedToGetAPIKey      = Message{"E0000019", "Failed to get api key details"}
	MsgFailedToGetApps        = Message{"E0000020", "Failed to get associated apps"}
	MsgDuplicateGroupName     = Message{"E0000021", "Group already exists"}
	MsgFailedToCreateGroup    = Message{"E0000022", "Failed to create group"}
	MsgDuplicateAPIKeyName    = Message{"E0000023", "Api key name already exists"}
	MsgFailedToCreateAPIKey   = Message{"E0000024", "Failed to create API key"}
	MsgFailedToCreateIntegr   = Message{"E0000026", "Failed to create Integration"}
	MsgIntegrationNotFound    = Message{"E0000027", "Integration not found"}
	MsgProviderNotFound       = Message{"E0000027", "provider not found"}
	MsgDuplicateProviderCode  = Message{"E0000033", "Provider code already exists"}
	MsgFailedToGetGroups      = Message{"E0000036", "Failed to get group list"}
	MsgFailedToUpdateIntegr   = Message{"E0000037", "Failed to update Integration"}
	MsgFailedToDeleteIntegr   = Message{"E0000038", "Failed to delete Integration"}
	MsgFailedToDecryptSecrets = Message{"E0000039", "Failed to read integration credentials"}
	MsgFailedToGetIntegr      = Message{"E0000040", "Failed to get Integration"}
)

// Success catalog.
var (
	MsgAPIKeyCreated = Message{"S000001", "API key created successfully."}
	MsgGroupCreated  = Message{"S000002", "Group created successfully."}
)

// GatewayError is a domain error: a stable code, a message, an HTTP-equivalent
// status and optional interpolation params. Store-layer error text never rides
// on it, only the catalog message.
type GatewayError struct {
	Code    string
	Message string
	Status  int
	Params  []string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.text())
}

func (e *GatewayError) text() string {
	if len(e.Params) == 0 {
		return e.Message
	}
	args := make([]any, len(e.Params))
	for i, p := range e.Params {
		args[i] = p
	}
	return fmt.Sprintf(e.Message, args...)
}

// Render returns the interpolated message for response bodies.
func (e *GatewayError) Render() string { return e.text() }

// NewGatewayError builds a domain error from a catalog message.
func NewGatewayError(msg Message, status int, params ...string) *GatewayError {
	return &GatewayError{Code: msg.Code, Message: msg.Text, Status: status, Params: params}
}

// InternalError wraps an unclassified failure as a 500 domain error.
func InternalError(msg Message) *GatewayError {
	return NewGatewayError(msg, http.StatusInternalServerError)
}

// AsGatewayError extracts a GatewayError from err, or nil.
func AsGatewayError(err error) *GatewayError {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return nil
}
