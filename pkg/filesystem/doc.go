// Package filesystem provides the filesystems rulesplit writes through.
//
// Production code uses the OS filesystem; tests use an in-memory one. Both
// are afero filesystems, so the emitter never touches the os package
// directly.
package filesystem
