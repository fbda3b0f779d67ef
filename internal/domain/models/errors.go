package models

import "fmt"

// NotFoundError indicates a referenced profile, job, tailored CV or
// experiment does not resolve. It is propagated to the caller, never retried.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %v not found", e.Resource, e.ID)
}

func NewNotFound(resource string, id any) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates malformed or missing required structured data,
// e.g. a vector dimension mismatch or an invalid stage name. It is surfaced
// immediately with the field name and offending value, never coerced.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func NewValidation(field string, value any, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// InvalidTransitionError indicates an experiment state machine violation.
type InvalidTransitionError struct {
	From ExperimentStatus
	To   ExperimentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid experiment transition: %s -> %s", e.From, e.To)
}

// DataQualityWarning is non-fatal: the record it refers to is excluded from
// the affected metric and the computation continues over the remaining data.
type DataQualityWarning struct {
	Metric string `json:"metric"`
	Detail string `json:"detail"`
}

func (w DataQualityWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Metric, w.Detail)
}
