// Package mqtt is the bridge's publish-only connection to the broker.
//
// Everything flows outward: retained health snapshots, provider and
// device lifecycle transitions, and pose samples, all under the
// lumenvr/ topic scheme (see Topics). The bridge never subscribes, so
// liveness signalling leans on the broker instead: a retained "online"
// status on connect, "graceful_shutdown" on Close, and a Last Will that
// fires with "unexpected_disconnect" if the process dies mid-session.
//
// Connection loss is tolerated, not fought. Paho's auto-reconnect runs
// with backoff in the background, and telemetry that fails to publish in
// the meantime is simply dropped; lifecycle history survives in the
// SQLite journal regardless.
package mqtt
