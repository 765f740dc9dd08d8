// Package display renders raw header fields for humans. These are pure
// string transforms kept away from the codecs so nothing in the decode
// path touches locale or timezone state; the raw integers stay on the
// records.
package display

import (
	"fmt"
	"time"
)

// Mode renders a raw mode word as seven octal digits, "0o0000755".
func Mode(mode uint32) string {
	return fmt.Sprintf("0o%07o", mode)
}

// Time renders epoch seconds as calendar time in loc. Callers that need
// deterministic output pass an explicit zone; nil falls back to the
// system's local zone.
func Time(epoch uint32, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(int64(epoch), 0).In(loc).Format("2006-01-02 15:04:05")
}
