package domain

import "errors"

// ErrRunNotFound is returned when a run ID cannot be found in a report store.
var ErrRunNotFound = errors.New("run not found")

// ErrUnknownStrategy is returned when a strategy label is not one of the supported strategies.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ErrNoGenerator is returned when text generation is requested but no generator is configured.
var ErrNoGenerator = errors.New("no text generator configured")

// ErrNotResubmittable is returned when a run is resubmitted that is not waiting for input.
var ErrNotResubmittable = errors.New("run is not waiting for human input")

// ErrUnknownTask is returned when a task label is not one of the generation tasks.
var ErrUnknownTask = errors.New("unknown task")
