package service

import "errors"

// Kind classifies a domain failure so transports can map it to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidInput
	KindInvalidState
	// KindTimeExpired is an InvalidState whose detection already moved the attempt to expired.
	KindTimeExpired
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	case KindInvalidInput:
		return "InvalidInput"
	case KindInvalidState:
		return "InvalidState"
	case KindTimeExpired:
		return "TimeExpired"
	case KindBusy:
		return "Busy"
	default:
		return "Internal"
	}
}

// Error is a classified domain failure. Sentinels below are compared with errors.Is;
// callers may wrap them with fmt.Errorf to add detail.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Submission domain errors.
var (
	ErrExamNotFound       = newError(KindNotFound, "exam not found")
	ErrSubmissionNotFound = newError(KindNotFound, "submission not found")

	ErrExamNotPublic = newError(KindForbidden, "exam is not public")
	ErrNotOwner      = newError(KindForbidden, "submission belongs to another student")

	ErrEmptyExam         = newError(KindInvalidInput, "exam has no questions")
	ErrInvalidOption     = newError(KindInvalidInput, "selected option must be one of A, B, C, D")
	ErrInvalidQuestionID = newError(KindInvalidInput, "invalid question id")
	ErrQuestionNotInExam = newError(KindInvalidInput, "question does not belong to this exam")
	ErrInvalidFilter     = newError(KindInvalidInput, "invalid filter")

	ErrEntryUnresolved  = newError(KindInvalidState, "exam references a question that no longer exists")
	ErrOptionsRequired  = newError(KindInvalidState, "question has no authored options")
	ErrSubmissionClosed = newError(KindInvalidState, "exam already submitted or expired")
	ErrSnapshotMissing  = newError(KindInvalidState, "options were not generated for this question, restart the exam")

	ErrTimeExpired = newError(KindTimeExpired, "time limit exceeded")

	ErrAttemptBusy = newError(KindBusy, "another start request for this exam is in progress")
)

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
