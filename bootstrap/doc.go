// Package bootstrap runs a binary's lifecycle: config defaults and
// validation, logger construction, ordered component start, hooks, a
// startup summary, signal handling and graceful shutdown.
//
// Long-running servers use Run, which blocks until SIGINT, SIGTERM or
// context cancellation. One-shot commands use RunTask:
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	defer app.Close()
//	app.RegisterComponent(srv)
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return transcribe(ctx, path)
//	})
package bootstrap
