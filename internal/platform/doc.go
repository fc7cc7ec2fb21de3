package platform

// Package platform contains input normalization and filesystem glue around
// the external tool: URL canonicalization, filename sanitization, progress
// line classification, and scratch directory helpers.
