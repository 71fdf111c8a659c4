package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller lacks the role required for the action.
// Roles are issued and enforced outside this service; the sentinel exists so
// that adapters can report the failure uniformly.
var ErrForbidden = errors.New("permission denied")

// ErrConflict indicates the resource is not in a state that allows the action.
var ErrConflict = errors.New("conflict")

// ErrInternal is a generic failure that should not leak details to callers.
var ErrInternal = errors.New("internal error")

// ErrPayrollNotReady is matched by errors.Is for *PayrollNotReadyError.
var ErrPayrollNotReady = errors.New("payroll not ready")

// ErrPartialFailure is matched by errors.Is for *PartialFailureError.
var ErrPartialFailure = errors.New("partial failure")

// ErrBatchCommit is matched by errors.Is for *BatchCommitError.
var ErrBatchCommit = errors.New("batch commit failed")

// AppError carries an HTTP-ish status code alongside a message and an optional cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError returns an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// PayrollNotReadyError is returned when a job cannot be completed because one
// or more assigned employees have no resolvable pay rate. EmployeeIDs are raw
// identifiers; callers resolve them to display names.
type PayrollNotReadyError struct {
	JobID       string
	EmployeeIDs []string
}

func (e *PayrollNotReadyError) Error() string {
	return fmt.Sprintf("job %s cannot be completed: no pay rate for employees [%s]", e.JobID, strings.Join(e.EmployeeIDs, ", "))
}

func (e *PayrollNotReadyError) Is(target error) bool {
	return target == ErrPayrollNotReady
}

// PartialFailureMessage is the remediation text shown when the job commit
// succeeded but a payroll follow-up step failed.
const PartialFailureMessage = "job marked complete but payroll follow-up failed, please review"

// PartialFailureError reports a post-commit failure of the completion workflow.
// Compensation has already been attempted when this error is returned.
type PartialFailureError struct {
	JobID string
	Step  string
	Cause error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s (job %s, step %s): %v", PartialFailureMessage, e.JobID, e.Step, e.Cause)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Cause
}

func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}

// BatchCommitError reports that an atomic multi-document write failed as a
// whole. No state was changed.
type BatchCommitError struct {
	Op    string
	Cause error
}

func (e *BatchCommitError) Error() string {
	return fmt.Sprintf("atomic write %q failed, no changes were applied: %v", e.Op, e.Cause)
}

func (e *BatchCommitError) Unwrap() error {
	return e.Cause
}

func (e *BatchCommitError) Is(target error) bool {
	return target == ErrBatchCommit
}
