// Package logging builds the slog loggers used across subfetch.
//
// Two handler formats are supported: a console handler that renders
// "TIMESTAMP LEVEL component: message key=value" lines for interactive use,
// and the standard JSON handler for machine consumption. Components obtain
// scoped loggers via NewComponentLogger so every line carries a component
// attribute.
package logging
