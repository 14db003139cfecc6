package host

// TrackingResult describes the quality of a pose sample.
// Values match the runtime's wire enumerators.
type TrackingResult int32

const (
	TrackingUninitialized TrackingResult = 1
	TrackingCalibrating   TrackingResult = 100
	TrackingRunningOK     TrackingResult = 200
	TrackingOutOfRange    TrackingResult = 201
)

// Quaternion is a rotation in the runtime's w-first convention.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector3 is a position or translation in metres.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose is the driver-reported pose of a tracked device, in the runtime's
// layout: a device-space pose plus the two calibration transforms that map
// it into world space.
type Pose struct {
	WorldFromDriverRotation    Quaternion `json:"world_from_driver_rotation"`
	WorldFromDriverTranslation Vector3    `json:"world_from_driver_translation"`

	DriverFromHeadRotation    Quaternion `json:"driver_from_head_rotation"`
	DriverFromHeadTranslation Vector3    `json:"driver_from_head_translation"`

	Rotation Quaternion `json:"rotation"`
	Position Vector3    `json:"position"`

	Result            TrackingResult `json:"result"`
	PoseIsValid       bool           `json:"pose_is_valid"`
	DeviceIsConnected bool           `json:"device_is_connected"`
}

// IdentityQuaternion is the zero rotation with unit real part.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// IdentityPose returns a valid, connected pose at the origin with every
// rotation set to identity and tracking reported as running. Devices without
// real tracking data report exactly this.
func IdentityPose() Pose {
	return Pose{
		WorldFromDriverRotation: IdentityQuaternion(),
		DriverFromHeadRotation:  IdentityQuaternion(),
		Rotation:                IdentityQuaternion(),
		Result:                  TrackingRunningOK,
		PoseIsValid:             true,
		DeviceIsConnected:       true,
	}
}
