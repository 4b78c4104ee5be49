package timetable

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteAssignment writes one "<exam> <slot>" line per exam, in ascending
// exam order.
func WriteAssignment(w io.Writer, assignment map[int]int) error {
	exams := make([]int, 0, len(assignment))
	for exam := range assignment {
		exams = append(exams, exam)
	}
	sort.Ints(exams)

	buf := new(bytes.Buffer)
	for _, exam := range exams {
		fmt.Fprintf(buf, "%d %d\n", exam, assignment[exam])
	}
	_, err := buf.WriteTo(w)
	return err
}

// WriteTo writes the timetable in the WriteAssignment format.
func (t *Timetable) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := WriteAssignment(cw, t.Assignment())
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// ReadAssignment parses the format written by WriteAssignment. Blank lines
// are skipped; an exam listed twice is an error.
func ReadAssignment(r io.Reader) (map[int]int, error) {
	assignment := make(map[int]int)
	scanner := bufio.NewScanner(r)
	linenumber := 0
	for scanner.Scan() {
		linenumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"<exam> <slot>\", found %d fields", linenumber, len(fields))
		}
		exam, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad exam id %q", linenumber, fields[0])
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad slot %q", linenumber, fields[1])
		}
		if old, present := assignment[exam]; present {
			return nil, fmt.Errorf("line %d: exam %d already placed in slot %d", linenumber, exam, old)
		}
		assignment[exam] = slot
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Print writes a slot-by-slot view of the timetable followed by its
// penalty and fitness.
func (t *Timetable) Print(w io.Writer) error {
	t.computeSlotPenalties()

	slotLen := len(strconv.Itoa(t.inst.Slots))
	penaltyLen := 1
	for _, p := range t.slotPenalty {
		if n := len(strconv.FormatInt(p, 10)); n > penaltyLen {
			penaltyLen = n
		}
	}

	buf := new(bytes.Buffer)
	for s := 1; s <= t.inst.Slots; s++ {
		members := t.slots[s].sorted()
		names := make([]string, len(members))
		for i, exam := range members {
			names[i] = strconv.Itoa(exam)
		}
		fmt.Fprintf(buf, "slot %*d  penalty %*d  | %s\n",
			slotLen, s, penaltyLen, t.slotPenalty[s], strings.Join(names, " "))
	}
	fmt.Fprintf(buf, "\ntimetable %d: penalty %.6f, fitness %.6f\n", t.id, t.Penalty(), t.Fitness())
	_, err := buf.WriteTo(w)
	return err
}
