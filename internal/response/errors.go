package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrStaffAccessOnly   ErrCode = "STAFF_ACCESS_ONLY"
	ErrNotSubmissionOwner ErrCode = "NOT_SUBMISSION_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidOption  ErrCode = "INVALID_OPTION"
	ErrInvalidFilter  ErrCode = "INVALID_FILTER"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrExamNotFound       ErrCode = "EXAM_NOT_FOUND"
	ErrSubmissionNotFound ErrCode = "SUBMISSION_NOT_FOUND"

	// ─── Exam attempt ──────────────────────────────────────────────────
	ErrExamNotPublic      ErrCode = "EXAM_NOT_PUBLIC"
	ErrEmptyExam          ErrCode = "EMPTY_EXAM"
	ErrEntryUnresolved    ErrCode = "QUESTION_UNRESOLVED"
	ErrOptionsRequired    ErrCode = "OPTIONS_REQUIRED"
	ErrQuestionNotInExam  ErrCode = "QUESTION_NOT_IN_EXAM"
	ErrSubmissionClosed   ErrCode = "SUBMISSION_CLOSED"
	ErrTimeExpired        ErrCode = "TIME_EXPIRED"
	ErrSnapshotMissing    ErrCode = "SNAPSHOT_MISSING"
	ErrAttemptInProgress  ErrCode = "ATTEMPT_BUSY"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal           ErrCode = "INTERNAL_ERROR"
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrStaffAccessOnly:
		return "This resource is restricted to teachers and administrators."
	case ErrNotSubmissionOwner:
		return "This submission belongs to another student."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidOption:
		return "Selected option must be one of A, B, C or D."
	case ErrInvalidFilter:
		return "Invalid filter or sort parameter."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrExamNotFound:
		return "Exam not found."
	case ErrSubmissionNotFound:
		return "Submission not found."

	// ─── Exam attempt ──────────────────────────────────────────────────
	case ErrExamNotPublic:
		return "This exam is not available to students."
	case ErrEmptyExam:
		return "This exam has no questions."
	case ErrEntryUnresolved:
		return "One of the exam questions no longer exists."
	case ErrOptionsRequired:
		return "Every exam question must define options A to D and a correct option."
	case ErrQuestionNotInExam:
		return "The question does not belong to this exam."
	case ErrSubmissionClosed:
		return "This exam has already been submitted or expired."
	case ErrTimeExpired:
		return "The time limit for this exam has passed."
	case ErrSnapshotMissing:
		return "Options for this question were not generated. Please restart the exam."
	case ErrAttemptInProgress:
		return "Another request for this attempt is in progress. Please retry."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	case ErrServiceUnavailable:
		return "A required dependency is unavailable."
	default:
		return "An unexpected error occurred."
	}
}
