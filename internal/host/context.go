package host

// ResolveCapability looks up a capability on a runtime context by version
// string. Both arguments are required; on a nil context or empty version it
// returns (nil, InitErrorInterfaceNotFound) without touching the runtime.
// Otherwise the runtime's own result and error code pass through unchanged.
func ResolveCapability(ctx DriverContext, interfaceVersion string) (Capability, InitError) {
	if ctx == nil || interfaceVersion == "" {
		return nil, InitErrorInterfaceNotFound
	}
	return ctx.GetGenericInterface(interfaceVersion)
}

// SessionIdentity returns the runtime session handle for a context, or 0 for
// a nil context. Backends use it to correlate calls belonging to the same
// session without holding a reference to runtime objects.
func SessionIdentity(ctx DriverContext) uint64 {
	if ctx == nil {
		return 0
	}
	return ctx.DriverHandle()
}
