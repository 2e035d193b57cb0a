// Package log provides the logging abstraction shared by the auto-organize
// components and the logging-infrastructure collaborator handed to the
// lifecycle coordinator.
//
// Components log through the Logger interface. Loggers are obtained by name
// from a Factory, which owns the underlying output (console or log file) and
// releases it on Close:
//
//	factory, err := log.NewZerologFactory(log.FactoryConfig{Level: "info"})
//	if err != nil {
//	    return err
//	}
//	defer factory.Close()
//
//	logger := factory.Named("organize")
//	logger.Info("scan complete", log.Int("new", 3))
//
// Use NewNoopLogger or NewNoopFactory in tests that do not inspect output.
package log
