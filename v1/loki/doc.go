// Package loki ships structured log entries to a Loki-style HTTP push
// endpoint.
//
// The package exposes a zapcore.Core that the telemetry builder tees next to
// the console core, so one logger instance writes to stderr and to the log
// collector at the same time. Entries are encoded as JSON lines, queued in
// process, and uploaded in batches by a background task tagged with the
// service_name and process_id stream labels.
//
// The adapter follows the telemetry error model: a malformed push URL is a
// fatal bootstrap error, while every runtime failure (full queue, network
// error, collector outage) is absorbed internally by buffering, one retry,
// and finally dropping. The application's logging hot path never blocks on
// the collector.
//
//	core, err := loki.NewCore(loki.Config{
//		URL:         "http://loki:3100/loki/api/v1/push",
//		ServiceName: "my-service",
//	})
//	if err != nil {
//		log.Fatal("log shipping is mandatory for this process", err, nil)
//	}
//	defer core.Stop(context.Background())
package loki
