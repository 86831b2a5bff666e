package fields

// Issue codes are stable identifiers so callers and tests never have to
// match on the user-facing message text.
const (
	CodeRequired         = "required"
	CodeTooShort         = "tooShort"
	CodeTooLong          = "tooLong"
	CodePattern          = "pattern"
	CodeBadPattern       = "badPattern"
	CodeInvalidNumber    = "invalidNumber"
	CodeBelowMin         = "belowMin"
	CodeAboveMax         = "aboveMax"
	CodeOutOfRange       = "outOfRange"
	CodeInvalidDate      = "invalidDate"
	CodeBeforeMin        = "beforeMin"
	CodeAfterMax         = "afterMax"
	CodeInvalidTime      = "invalidTime"
	CodeInvalidOption    = "invalidOption"
	CodeTooFewOptions    = "tooFewOptions"
	CodeTooManyOptions   = "tooManyOptions"
	CodeTooFewFiles      = "tooFewFiles"
	CodeTooManyFiles     = "tooManyFiles"
	CodeFileTooLarge     = "fileTooLarge"
	CodeFileExtension    = "fileExtension"
	CodeTooFewRows       = "tooFewRows"
	CodeTooManyRows      = "tooManyRows"
	CodeCellRequired     = "cellRequired"
	CodeCellType         = "cellType"
	CodeCellOutOfRange   = "cellOutOfRange"
)

// Issue is a single validation failure. It is a value record, never an
// error: routine invalid input is reported, not thrown.
type Issue struct {
	ElementID string         `json:"elementId"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Params    map[string]any `json:"params,omitempty"`
}

func issue(elementID, code, message string) *Issue {
	return &Issue{ElementID: elementID, Code: code, Message: message}
}

func issueWith(elementID, code, message string, params map[string]any) *Issue {
	return &Issue{ElementID: elementID, Code: code, Message: message, Params: params}
}
