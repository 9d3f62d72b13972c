// Package model provides capability-based model selection for assistant
// tasks. Instead of hardcoding model names, tasks specify capabilities
// (fast, reasoning, grading) and the registry resolves them to available
// endpoints with fallback chains.
package model

// Capability represents a semantic capability for model selection.
type Capability string

const (
	// CapabilityFast is for quick, low-stakes generation such as summaries.
	CapabilityFast Capability = "fast"

	// CapabilityReasoning is for comprehension work: answering questions
	// against a document and generating challenge questions.
	CapabilityReasoning Capability = "reasoning"

	// CapabilityGrading is for evaluating user answers against a document.
	CapabilityGrading Capability = "grading"
)

// TaskCapabilities maps assistant tasks to their default capability.
var TaskCapabilities = map[string]Capability{
	"summarize": CapabilityFast,
	"answer":    CapabilityReasoning,
	"challenge": CapabilityReasoning,
	"evaluate":  CapabilityGrading,
}

// CapabilityForTask returns the default capability for a task.
// Returns CapabilityReasoning as fallback for unknown tasks.
func CapabilityForTask(task string) Capability {
	if c, ok := TaskCapabilities[task]; ok {
		return c
	}
	return CapabilityReasoning
}

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityFast, CapabilityReasoning, CapabilityGrading:
		return true
	}
	return false
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability converts a string to a Capability, returning empty for
// invalid values.
func ParseCapability(s string) Capability {
	c := Capability(s)
	if c.IsValid() {
		return c
	}
	return ""
}
