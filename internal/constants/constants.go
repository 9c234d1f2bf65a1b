// Package constants holds the fixed parameters of the run engine that
// would otherwise be magic numbers scattered across model, scheduler and
// engine code.
package constants

// StorageSize is the length, in u32 words, of each storage region (host
// and device) owned by the model.
const StorageSize = 1024

// BatchSize is the fixed burst length for the BATCHED scheduling policy.
const BatchSize = 4

// DefaultSchedulerVersion is the conventional scheduler_version value.
// The run engine does not substitute it: RUN_HEADER carries whatever
// RunConfig.SchedulerVersion holds, an empty string included.
const DefaultSchedulerVersion = "v1.0"

// MatrixProgressInterval controls how often run-matrix logs a progress
// line while iterating the experiment cross-product.
const MatrixProgressInterval = 100
