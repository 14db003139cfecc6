// Package influxdb stores the bridge's time-series telemetry: per-frame
// timing from the run loop, device pose samples, and lifecycle
// transitions.
//
// Writes go through the client library's non-blocking batched API, so a
// slow or absent InfluxDB never stalls the frame loop; failed batches
// surface through the SetOnError callback and the points are lost. The
// whole package is optional, gated on influxdb.enabled in config.
package influxdb
