// Package services defines the shared error taxonomy and context
// propagation helpers used by the processing pipeline.
package services
