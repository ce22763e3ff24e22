// Package engine is the survey delivery engine.
//
// One RunOnce call examines every due survey, classifies it by trigger,
// resolves its audience, renders and dispatches notifications, and advances
// the schedule of recurring surveys. Surveys are processed independently on
// a bounded worker pool; a failure (or panic) in one survey's processing is
// recorded in the run report and never stalls the rest of the batch.
//
// Failure isolation is layered: per-survey errors (malformed schedule,
// audience resolution) stop only that survey, while per-recipient dispatch
// errors stop only that recipient. A recurring survey's schedule is advanced
// only after its send pass ran, so a failed survey is naturally retried on
// the next tick with its schedule unchanged.
package engine
