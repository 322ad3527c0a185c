// Package typcheck checks the prose of markup documents with an external
// grammar and spell-checking backend. It extracts plain text from a parsed
// document without losing source positions, submits the text in bounded
// chunks, and maps the backend's findings back to line/column ranges in the
// original files, across includes.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goldmark/, languagetool/, sqlite/).
package typcheck
