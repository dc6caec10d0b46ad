package service

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/smithy-go"
	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/arrayctl/internal/errors"
)

// DefaultVendorCodes maps array error codes to the taxonomy. Entries from
// configuration are merged over these.
var DefaultVendorCodes = map[string]errors.Code{
	"0xE04040010005": errors.CodeNotFound,
	"0xE0101001000C": errors.CodeUnsupportedOperation,
	"0xE04040030001": errors.CodeValidation,
	"0xE09010010001": errors.CodeTransport,
}

type vendorBody struct {
	Messages []struct {
		Code        string `json:"code"`
		Severity    string `json:"severity"`
		MessageL10n string `json:"message_l10n"`
	} `json:"messages"`
}

// ErrorTranslator maps failures raised by an ArrayClient onto the error
// taxonomy. A vendor error code takes precedence over the HTTP status.
type ErrorTranslator struct {
	vendorCodes map[string]errors.Code
}

func NewErrorTranslator(overrides map[string]errors.Code) *ErrorTranslator {
	codes := make(map[string]errors.Code, len(DefaultVendorCodes)+len(overrides))
	for k, v := range DefaultVendorCodes {
		codes[strings.ToUpper(k)] = v
	}
	for k, v := range overrides {
		codes[strings.ToUpper(k)] = v
	}
	return &ErrorTranslator{vendorCodes: codes}
}

// Translate returns nil for a nil error. Errors already carrying a taxonomy
// code pass through unchanged.
func (t *ErrorTranslator) Translate(err error) *errors.AppError {
	if err == nil {
		return nil
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Code.IsTaxonomy() {
		return appErr
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Reclassify(err, errors.CodeTransport, "array call interrupted before a response was received")
	}

	status := 0
	var withStatus interface{ HTTPStatusCode() int }
	if stderrors.As(err, &withStatus) {
		status = withStatus.HTTPStatusCode()
	}

	vendorCode, vendorMsg := t.vendorError(err)
	if code, ok := t.vendorCodes[strings.ToUpper(vendorCode)]; ok && vendorCode != "" {
		return t.build(err, code, describe(vendorMsg, "array rejected the request"), status, vendorCode)
	}

	if status != 0 {
		return t.build(err, statusCode(status), describe(vendorMsg, http.StatusText(status)), status, vendorCode)
	}

	if isTransportFailure(err) {
		return t.build(err, errors.CodeTransport, "array unreachable", 0, vendorCode)
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultClient {
		return t.build(err, errors.CodeValidation, describe(apiErr.ErrorMessage(), "array rejected the request"), 0, vendorCode)
	}

	return t.build(err, errors.CodeTransport, "unclassified failure talking to the array", 0, vendorCode)
}

func (t *ErrorTranslator) build(err error, code errors.Code, msg string, status int, vendorCode string) *errors.AppError {
	out := errors.Reclassify(err, code, msg)
	if status != 0 {
		out.WithDetail("http_status", status)
	}
	if vendorCode != "" {
		out.WithDetail("vendor_code", vendorCode)
	}
	return out
}

// vendorError extracts the first vendor code and message, preferring the
// smithy.APIError view over the raw response body.
func (t *ErrorTranslator) vendorError(err error) (string, string) {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) && apiErr.ErrorCode() != "" {
		return apiErr.ErrorCode(), apiErr.ErrorMessage()
	}

	var withBody interface{ ResponseBody() []byte }
	if !stderrors.As(err, &withBody) {
		return "", ""
	}
	body := withBody.ResponseBody()
	if len(body) == 0 {
		return "", ""
	}
	var vb vendorBody
	if jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, &vb) != nil || len(vb.Messages) == 0 {
		return "", ""
	}
	return vb.Messages[0].Code, vb.Messages[0].MessageL10n
}

func statusCode(status int) errors.Code {
	switch {
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return errors.CodeValidation
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return errors.CodeTransport
	case status == http.StatusNotFound:
		return errors.CodeNotFound
	case status == http.StatusMethodNotAllowed, status == http.StatusNotImplemented:
		return errors.CodeUnsupportedOperation
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return errors.CodeTransport
	case status >= 400:
		return errors.CodeValidation
	default:
		return errors.CodeTransport
	}
}

func isTransportFailure(err error) bool {
	var netErr net.Error
	var urlErr *url.Error
	var unknownAuth x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var certErr x509.CertificateInvalidError
	var recordErr tls.RecordHeaderError
	return stderrors.As(err, &netErr) ||
		stderrors.As(err, &urlErr) ||
		stderrors.As(err, &unknownAuth) ||
		stderrors.As(err, &hostErr) ||
		stderrors.As(err, &certErr) ||
		stderrors.As(err, &recordErr)
}

func describe(primary, fallback string) string {
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	if fallback == "" {
		return "array request failed"
	}
	return fmt.Sprintf("array request failed: %s", strings.ToLower(fallback))
}
