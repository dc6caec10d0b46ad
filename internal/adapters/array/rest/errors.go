package rest

import (
	"fmt"
	"net/http"

	"github.com/aws/smithy-go"
	jsoniter "github.com/json-iterator/go"
)

var _ smithy.APIError = (*APIError)(nil)

// APIError is a non-2xx answer from the array. It exposes the vendor error
// code through smithy.APIError so translators can prefer it over the status.
type APIError struct {
	StatusCode    int
	Method        string
	Path          string
	Body          []byte
	VendorCode    string
	VendorMessage string
}

type errorBody struct {
	Messages []struct {
		Code        string `json:"code"`
		Severity    string `json:"severity"`
		MessageL10n string `json:"message_l10n"`
	} `json:"messages"`
}

func newAPIError(status int, method, path string, body []byte) *APIError {
	e := &APIError{StatusCode: status, Method: method, Path: path, Body: body}
	var parsed errorBody
	if len(body) > 0 && jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, &parsed) == nil && len(parsed.Messages) > 0 {
		e.VendorCode = parsed.Messages[0].Code
		e.VendorMessage = parsed.Messages[0].MessageL10n
	}
	return e
}

func (e *APIError) Error() string {
	if e.VendorMessage != "" {
		return fmt.Sprintf("array request %s %s failed: status=%d code=%s: %s", e.Method, e.Path, e.StatusCode, e.VendorCode, e.VendorMessage)
	}
	return fmt.Sprintf("array request %s %s failed: status=%d body=%q", e.Method, e.Path, e.StatusCode, string(e.Body))
}

func (e *APIError) ErrorCode() string {
	return e.VendorCode
}

func (e *APIError) ErrorMessage() string {
	if e.VendorMessage != "" {
		return e.VendorMessage
	}
	return http.StatusText(e.StatusCode)
}

func (e *APIError) ErrorFault() smithy.ErrorFault {
	switch {
	case e.StatusCode >= 500:
		return smithy.FaultServer
	case e.StatusCode >= 400:
		return smithy.FaultClient
	default:
		return smithy.FaultUnknown
	}
}

func (e *APIError) HTTPStatusCode() int {
	return e.StatusCode
}

func (e *APIError) ResponseBody() []byte {
	return e.Body
}
