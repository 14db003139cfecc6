package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names. Tags carry the low-cardinality identity (bridge ID,
// serial, entity); fields carry the data.
const (
	measurementFrames    = "frame_metrics"
	measurementPoses     = "pose_samples"
	measurementLifecycle = "lifecycle"
)

// WriteFrameMetric records one run-loop observation: the average
// per-frame duration over the sampling window and the cumulative frame
// count. Non-blocking; dropped silently when disconnected.
func (c *Client) WriteFrameMetric(bridgeID string, durationMs float64, frameCount uint64) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(
		measurementFrames,
		map[string]string{"bridge_id": bridgeID},
		map[string]interface{}{
			"duration_ms": durationMs,
			"frame_count": int64(frameCount), //nolint:gosec // counter fits int64 for centuries
		},
		time.Now(),
	))
}

// WritePoseSample records a device position in tracking-space metres.
func (c *Client) WritePoseSample(serial string, x, y, z float64) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(
		measurementPoses,
		map[string]string{"serial": serial},
		map[string]interface{}{"x": x, "y": y, "z": z},
		time.Now(),
	))
}

// WriteLifecycleTransition records a provider or device state change.
// Entity is "provider" or "device"; id is the bridge ID or device serial.
func (c *Client) WriteLifecycleTransition(entity, id, from, to string) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(
		measurementLifecycle,
		map[string]string{"entity": entity, "id": id},
		map[string]interface{}{"from": from, "to": to},
		time.Now(),
	))
}
