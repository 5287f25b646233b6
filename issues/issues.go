// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package issues accumulates structured, non-fatal problems found while
// planning storage changes.
package issues

import (
	"fmt"

	"github.com/siderolabs/gen/xslices"
)

// Kind classifies an issue.
type Kind int

const (
	// KindInvalidValue marks an unrecognized value for a known field.
	KindInvalidValue Kind = iota
	// KindMissingValue marks a required field without a value.
	KindMissingValue
	// KindNoDiskSpace marks a request that doesn't fit the available space.
	KindNoDiskSpace
	// KindNoSuchDevice marks a reference to a device not present in the graph.
	KindNoSuchDevice
)

func (k Kind) String() string {
	switch k {
	case KindInvalidValue:
		return "invalid value"
	case KindMissingValue:
		return "missing value"
	case KindNoDiskSpace:
		return "no disk space"
	case KindNoSuchDevice:
		return "no such device"
	default:
		return "unknown"
	}
}

// Severity of an issue.
type Severity int

const (
	// SeverityWarn marks an issue worked around with a safe default.
	SeverityWarn Severity = iota
	// SeverityError marks an issue that makes part of the plan unusable.
	SeverityError
)

// Issue is a single problem record.
type Issue struct { //nolint:govet
	Kind     Kind
	Severity Severity

	// Device is the device name of the affected section, if any.
	Device string
	// Field is the profile attribute the issue refers to, if any.
	Field string
	// Value is the offending value, if any.
	Value string
}

func (i Issue) String() string {
	msg := i.Kind.String()

	if i.Field != "" {
		msg = fmt.Sprintf("%s for %q", msg, i.Field)
	}

	if i.Value != "" {
		msg = fmt.Sprintf("%s: %q", msg, i.Value)
	}

	if i.Device != "" {
		msg = fmt.Sprintf("%s (device %s)", msg, i.Device)
	}

	return msg
}

// List is an ordered, append-only collection of issues.
//
// The zero value is ready to use. Planners only append; the list is owned by
// the caller.
type List struct {
	items []Issue
}

// Append adds issues at the end of the list.
func (l *List) Append(issues ...Issue) {
	l.items = append(l.items, issues...)
}

// AppendInvalidValue records an unrecognized value for a field.
func (l *List) AppendInvalidValue(device, field, value string) {
	l.Append(Issue{
		Kind:     KindInvalidValue,
		Severity: SeverityWarn,
		Device:   device,
		Field:    field,
		Value:    value,
	})
}

// All returns the issues in recording order.
func (l *List) All() []Issue {
	return l.items
}

// ByKind returns the issues of the given kind, in recording order.
func (l *List) ByKind(kind Kind) []Issue {
	return xslices.Filter(l.items, func(i Issue) bool {
		return i.Kind == kind
	})
}

// Len returns the number of recorded issues.
func (l *List) Len() int {
	return len(l.items)
}

// Empty returns true when no issues were recorded.
func (l *List) Empty() bool {
	return len(l.items) == 0
}
