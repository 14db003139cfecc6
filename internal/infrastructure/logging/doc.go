// Package logging builds the bridge's structured logger on log/slog.
//
// Every component takes the same *Logger: JSON or text output, level
// filtering from config, and service/version attrs stamped on every
// line. Adapter packages accept it through their own small Logger
// interfaces, so nothing below the composition root imports this
// package directly.
//
// Keep secrets out of log fields; the JWT secret and broker password in
// particular only ever appear in config.
package logging
