package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/russross/examtt/internal/timetable"
)

func readSolution(filename string) (map[int]int, error) {
	fp, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("the timetable must be in %s (run gen first)", filename)
		}
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer fp.Close()

	assignment, err := timetable.ReadAssignment(fp)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return assignment, nil
}

// writeSolution replaces filename atomically so an interrupted run never
// leaves a truncated timetable behind.
func writeSolution(log *zap.Logger, filename string, t *timetable.Timetable) error {
	tmpFile := filename + ".tmp"
	fp, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmpFile, err)
	}
	if _, err = t.WriteTo(fp); err != nil {
		fp.Close()
		return fmt.Errorf("writing %s: %w", tmpFile, err)
	}
	if err = fp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpFile, err)
	}
	if err = os.Rename(tmpFile, filename); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpFile, filename, err)
	}
	log.Info("timetable saved", zap.String("file", filename), zap.Int64("id", t.ID()))
	return nil
}
