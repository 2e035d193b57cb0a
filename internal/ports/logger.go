package ports

import "github.com/bft-labs/autoorganize/pkg/log"

// Logger is the structured logger used throughout the core.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// LoggerFactory is the logging-infrastructure collaborator: it creates named
// loggers and is released at shutdown.
type LoggerFactory = log.Factory
