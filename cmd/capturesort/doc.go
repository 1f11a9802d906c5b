// Command capturesort copies camera-trap images from partitioned source
// folders into outDir/<partition>/<MM-DD-YYYY>/, dating each file from its
// EXIF timestamps or, failing that, its modification time.
//
// Usage:
//
//	capturesort --inDir <dir> --outDir <dir> [--workers N] [--dry-run]
//	capturesort config sample [--output file]
package main
