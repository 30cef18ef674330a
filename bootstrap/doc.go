// Package bootstrap assembles a cryptokit process from its configuration
// and runs it.
//
//	app, err := bootstrap.NewApp(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
//
// NewApp installs the configured cryptographer (instrumented with crypto
// metrics) into the encryption registry, builds the token service when an
// HMAC key is set and the HTTP server when server.enabled is true. Run
// starts the components in order, blocks on SIGINT/SIGTERM and stops them in
// reverse order. RunTask does the same around a finite task.
package bootstrap
