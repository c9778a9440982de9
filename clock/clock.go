// Package clock provides the timestamp service used by the PCB and the log
// sink: microsecond-resolution wall clock marks, matching the original
// emulator's time_services.rs.
package clock

import "time"

// NowMicros returns the current wall-clock time as microseconds since the
// Unix epoch.
func NowMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}
