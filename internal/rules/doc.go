// Package rules stores reusable instruction snippets that projects attach to
// agent instruction files by filename.
package rules
