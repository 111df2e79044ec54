// Package plan turns an ingest session into an ordered list of render jobs.
//
// For every footage item the mapping table yields an output template. Each
// shot on the item then produces a primary job and, when proxies are enabled,
// a proxy job directly after it. Jobs carry the processing chain applied
// between decode and write:
//
//	decode -> metadata -> [downscale] -> primary write
//	               \----> [proxy scale] -> proxy write
//
// The proxy branch leaves the shared metadata stage, so its scale is applied
// to the unscaled source. Per-shot commands are collected as hooks.
//
// Build never mutates the session and never touches the filesystem.
package plan
