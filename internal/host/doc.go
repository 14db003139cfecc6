// Package host defines the fixed contract between the VR runtime and a
// driver plugin: the provider and device interfaces the runtime invokes,
// the result codes it understands, and the accessor functions that read
// runtime-owned context objects without depending on runtime internals.
//
// Everything in this package mirrors an external ABI. The shapes here are
// not ours to redesign: adapters translate between these types and the
// backend's entry points, and nothing more.
package host
