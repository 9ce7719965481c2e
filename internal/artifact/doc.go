// Package artifact persists a similarity matrix to disk in a self-describing
// binary format and loads it back.
//
// Layout, all integers little-endian:
//
//	magic        8 bytes  "CMSIMTX\x00"
//	version      uint16
//	rows         uint64
//	built at     int64    unix nanoseconds
//	build id     16 bytes UUID
//	dataset sum  32 bytes SHA-256 of the source CSV
//	payload      rows*rows float64, row-major
//	crc          uint32   CRC-32 (IEEE) of the payload bytes
//
// Files are written atomically; a reader never observes a partial artifact.
package artifact
