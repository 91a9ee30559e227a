// Package httpserver runs an http.Handler with graceful, context-driven
// shutdown and provides liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithOnShutdown(registry.CloseAll),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
package httpserver
