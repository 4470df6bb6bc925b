package html2pdf

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrEmptyHTML     = errors.New("HTML content cannot be empty")
	ErrProvisioning  = errors.New("browser provisioning failed")
	ErrLaunch        = errors.New("browser launch failed")
	ErrRenderTimeout = errors.New("render timed out")
	ErrRender        = errors.New("render failed")
	ErrClosed        = errors.New("converter is closed")
	ErrPoolWait      = errors.New("waiting for a conversion slot")

	ErrInvalidLength = errors.New("invalid length")
)

// ProvisioningReason classifies why a browser binary could not be obtained.
type ProvisioningReason string

// Provisioning failure reasons.
const (
	ReasonNetwork      ProvisioningReason = "network"      // fetch failed
	ReasonDisk         ProvisioningReason = "disk"         // install dir unusable or binary missing
	ReasonVerification ProvisioningReason = "verification" // binary present but does not run
)

// Stage names the pipeline step an error came from.
type Stage string

// Pipeline stages.
const (
	StageLaunch   Stage = "launch"
	StageLoad     Stage = "load"
	StagePrint    Stage = "print"
	StageVerify   Stage = "verify"
	StageInternal Stage = "internal"
)

// ProvisioningError reports that no usable browser binary is available.
// It matches ErrProvisioning with errors.Is and unwraps to the cause.
type ProvisioningError struct {
	Reason ProvisioningReason
	Err    error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrProvisioning, e.Reason, e.Err)
}

func (e *ProvisioningError) Unwrap() []error { return []error{ErrProvisioning, e.Err} }

// LaunchError reports that the browser process could not be started or
// connected to.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string { return fmt.Sprintf("%v: %v", ErrLaunch, e.Err) }

func (e *LaunchError) Unwrap() []error { return []error{ErrLaunch, e.Err} }

// RenderTimeoutError reports a stage that exceeded its deadline.
type RenderTimeoutError struct {
	Stage Stage
	Err   error
}

func (e *RenderTimeoutError) Error() string {
	return fmt.Sprintf("%v during %s: %v", ErrRenderTimeout, e.Stage, e.Err)
}

func (e *RenderTimeoutError) Unwrap() []error { return []error{ErrRenderTimeout, e.Err} }

// RenderError reports an engine failure while loading, printing or
// verifying a document.
type RenderError struct {
	Stage Stage
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%v during %s: %v", ErrRender, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() []error { return []error{ErrRender, e.Err} }

// stageError classifies err from a step bounded by ctx. A deadline on ctx
// (or one reported by the engine) becomes a RenderTimeoutError. The context
// error stays in the chain so callers can test for context.Canceled.
func stageError(ctx context.Context, stage Stage, err error) error {
	if cerr := ctx.Err(); cerr != nil && !errors.Is(err, cerr) {
		err = fmt.Errorf("%w: %v", cerr, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &RenderTimeoutError{Stage: stage, Err: err}
	}
	return &RenderError{Stage: stage, Err: err}
}
