package data

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// IndexEntry is one "path label" line of a dataset list file.
type IndexEntry struct {
	Path  string
	Label int
}

// ReadIndex parses a dataset list file. Blank lines are ignored and
// malformed lines are skipped.
func ReadIndex(path string) ([]IndexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	var out []IndexEntry
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			log.WithFields(log.Fields{"file": path, "line": line}).Debug("skipping malformed index line")
			continue
		}
		label, err := strconv.Atoi(fields[1])
		if err != nil || label < 0 {
			log.WithFields(log.Fields{"file": path, "line": line}).Debugf("skipping index line with label %q", fields[1])
			continue
		}
		out = append(out, IndexEntry{Path: fields[0], Label: label})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return out, nil
}

// GroupIndex splits entries by label, keeping file order within a class.
func GroupIndex(entries []IndexEntry) map[int][]IndexEntry {
	out := map[int][]IndexEntry{}
	for _, e := range entries {
		out[e.Label] = append(out[e.Label], e)
	}
	return out
}
