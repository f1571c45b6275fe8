// Package validation checks configuration structs against their
// `validate` struct tags.
//
// Field names in messages follow the mapstructure key, so a failure reads
// the same way the setting is written in config.yml:
//
//	type DispatcherConfig struct {
//	    MaxConcurrent int `mapstructure:"max_concurrent" validate:"gte=0"`
//	}
//	err := validation.Struct(cfg) // "dispatcher.max_concurrent: must be >= 0"
//
// Failures are returned as *errors.AppError with code INVALID_INPUT and the
// individual field errors under the "fields" detail.
package validation
