// Package sampler runs a recurring measurement probe and forwards its
// observations to the metrics pipeline.
//
// A Sampler invokes a zero-argument Probe on a fixed interval and records
// each named observation on a Recorder, tagged with the service name. It is
// an independent background task: probe panics and sink failures are caught
// and logged, and the next tick proceeds normally. Nothing the sampler does
// can terminate the process or another subsystem.
//
// BaseProbe provides the standard resource-usage measurements (CPU percent,
// RAM bytes). Any function returning a map of named float64 observations can
// serve as a probe.
//
//	s := sampler.New(sampler.Config{ServiceName: "my-service"},
//		sampler.BaseProbe(),
//		sampler.NewMeterRecorder(m.Meter, "my-service", log),
//		log)
//	s.Start()
//	defer s.Stop(context.Background())
//
// The clock is injectable for deterministic tests (WithClock), following the
// clockz Clock interface.
package sampler
