// Package logger builds slog loggers for the API process and provides
// attribute helpers so log keys stay consistent across packages.
//
// Loggers are configured per environment: development writes text at debug
// level, staging and production write JSON at info level. Request-scoped
// values such as the request ID are injected from context through
// ContextExtractor functions at log time.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.AppEnv, "bookspace-api"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.LogAttrs(ctx, slog.LevelInfo, "notification dispatched",
//		logger.NotificationID(n.ID.Hex()),
//		logger.UserID(n.UserID.Hex()),
//	)
package logger
