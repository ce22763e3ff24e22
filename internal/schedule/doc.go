// Package schedule computes delivery times for recurring surveys and parses
// trigger metadata.
//
// The recurrence calculator is a pure function: it never mutates the survey,
// the delivery engine persists the result. Rules with an unrecognized unit
// resolve to Never, which keeps the survey out of every future due query
// until the rule is corrected externally.
//
// Trigger windows accept two syntaxes: Go duration strings ("24h", "90m")
// and clock-span form ("24:00:00", "1.12:00:00" for 1 day 12 hours), the
// latter for compatibility with rows written by the legacy system.
package schedule
