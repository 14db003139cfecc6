// Package bridge adapts the runtime's provider and device contracts onto
// backend entry points reached through opaque handle tokens.
//
// The adapters own the lifecycle translation: they acquire and release
// handles exactly once, forward each runtime call to the matching backend
// entry point, and translate backend result codes into the codes the
// runtime expects. Neither side sees into the other: the runtime knows
// only the host contract, the backend knows only its own entry points.
//
// Failure policy, fixed by the external contract:
//   - an absent handle is terminal; every call on it is a benign no-op or
//     a failure code, never undefined behaviour
//   - backend rejection of Init/Activate leaves the adapter in its prior
//     state and surfaces as InitErrorInitCanceled
//   - RunFrame, Deactivate, and the standby toggles are fire-and-forget;
//     the runtime's contract gives them no way to fail
package bridge
