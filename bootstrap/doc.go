// Package bootstrap is the application shell for pipeline programs.
//
// The caller builds a config (usually with config.Load), hands it to
// NewApp, and runs a finite task under signal handling and graceful
// shutdown:
//
//	var cfg AppConfig
//	if err := config.Load("ingest", &cfg); err != nil {
//	    return err
//	}
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//
//	err = app.Run(ctx, func(ctx context.Context) error {
//	    _, err := app.RunPipeline(ctx, registry, def)
//	    return err
//	})
//
// RunPipeline assembles a definition, wraps every stage with logging
// (plus metrics and tracing when enabled), runs it, and converts an
// error-valued result into a returned error. Each run carries a fresh
// run id through logs, spans and metrics, and the process exits with a
// summary of its runs.
package bootstrap
