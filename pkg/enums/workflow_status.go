package enums

import "fmt"

// WorkflowStatus tracks the lifecycle of one asynchronous remote operation.
type WorkflowStatus string

const (
	WorkflowStatusIdle      WorkflowStatus = "idle"
	WorkflowStatusLoading   WorkflowStatus = "loading"
	WorkflowStatusSucceeded WorkflowStatus = "succeeded"
	WorkflowStatusFailed    WorkflowStatus = "failed"
)

var validWorkflowStatuses = []WorkflowStatus{
	WorkflowStatusIdle,
	WorkflowStatusLoading,
	WorkflowStatusSucceeded,
	WorkflowStatusFailed,
}

// String implements fmt.Stringer.
func (w WorkflowStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WorkflowStatus.
func (w WorkflowStatus) IsValid() bool {
	for _, candidate := range validWorkflowStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWorkflowStatus converts raw input into a WorkflowStatus.
func ParseWorkflowStatus(value string) (WorkflowStatus, error) {
	for _, candidate := range validWorkflowStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid workflow status %q", value)
}
