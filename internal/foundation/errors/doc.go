// Package errors provides the classified error type used across runwasm.
//
// Every failure the pipeline can report is a ClassifiedError carrying a category
// (config, validation, compiler, artifact, ...), a severity and structured context.
// The CLI adapter turns categories into process exit codes.
//
// Example usage:
//
//	err := errors.ArtifactError("wasm artifact not found").
//		WithContext("path", artifactPath).
//		WithCause(statErr).
//		Build()
package errors
