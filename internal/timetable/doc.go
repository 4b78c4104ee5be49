// Package timetable holds candidate exam timetables and the operators a
// genetic search applies to them.
//
// A Timetable always assigns every exam of its Instance to a slot such that
// no two exams sharing a student meet at the same time. Among such
// timetables, better ones keep each student's exams further apart: two
// conflicting exams d slots apart cost 2^(5-d) per shared student when d is
// at most 5, and the penalty is that cost averaged over all students.
//
// Operators draw all of their randomness from the *rand.Rand they are given,
// so a fixed seed reproduces a run exactly.
package timetable
