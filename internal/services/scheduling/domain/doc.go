// Package domain models the exam scheduling workflow: schedule entries and
// their lifecycle transitions, exam periods, catalog reference values, actor
// capabilities, and conflict detection between committed entries.
//
// The package is persistence-free. Callers inject clocks and id generators,
// and the workflow layer owns serialization of contending transitions.
package domain
