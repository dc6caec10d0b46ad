package errors

type Code string

const (
	CodeUnknown  Code = "UNKNOWN"
	CodeInternal Code = "INTERNAL_ERROR"

	// Reconciliation taxonomy surfaced through Outcome.Failure
	CodeNotFound             Code = "NOT_FOUND"
	CodeUnsupportedOperation Code = "UNSUPPORTED_OPERATION"
	CodeTransport            Code = "TRANSPORT_ERROR"
	CodeJobFailed            Code = "JOB_FAILED"
	CodeTimeout              Code = "TIMEOUT"
	CodeValidation           Code = "VALIDATION_ERROR"

	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"

	CodeManifestReadError  Code = "MANIFEST_READ_ERROR"
	CodeManifestParseError Code = "MANIFEST_PARSE_ERROR"

	CodeJournalError Code = "JOURNAL_ERROR"
)

func (c Code) String() string {
	return string(c)
}

// IsTaxonomy reports whether c is one of the codes a reconciliation Outcome may carry.
func (c Code) IsTaxonomy() bool {
	switch c {
	case CodeNotFound, CodeUnsupportedOperation, CodeTransport,
		CodeJobFailed, CodeTimeout, CodeValidation:
		return true
	}
	return false
}

// ParseCode accepts either the canonical code or the short kind name used in
// configuration files (e.g. "NotFound", "not_found").
func ParseCode(s string) (Code, bool) {
	switch normalizeCodeName(s) {
	case "notfound":
		return CodeNotFound, true
	case "unsupportedoperation", "unsupported":
		return CodeUnsupportedOperation, true
	case "transporterror", "transport":
		return CodeTransport, true
	case "jobfailed":
		return CodeJobFailed, true
	case "timeout":
		return CodeTimeout, true
	case "validationerror", "validation":
		return CodeValidation, true
	}
	return CodeUnknown, false
}

func normalizeCodeName(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '-' || c == ' ':
			continue
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
