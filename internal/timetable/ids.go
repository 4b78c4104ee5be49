package timetable

import "sync/atomic"

// An IDSource hands out timetable identities. One source is normally owned
// by whatever manages a group of timetables; it is safe for concurrent use.
type IDSource struct {
	last atomic.Int64
}

// Next returns the next identity, starting at 1.
func (s *IDSource) Next() int64 {
	return s.last.Add(1)
}
