// Package scan finds the SVG files in a folder for import.
//
// Scan is non-recursive: only regular files directly inside the folder whose
// extension is .svg (any case) are returned. File contents are read
// concurrently, bounded by WithWorkers. Results are sorted by name so imports
// are deterministic.
package scan
