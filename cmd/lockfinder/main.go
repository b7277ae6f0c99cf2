// Command lockfinder reads a crunkurrent debug log written with
// -debug-locks and reports which locks were held when the log ended. It's
// useful for tracking down a deadlock.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

var logfile = flag.String("logfile", "crunkurrent.log", "path to the -debug-log file to consider")

func run() error {
	flag.Parse()

	file, err := os.Open(*logfile)
	if err != nil {
		return err
	}
	defer file.Close()

	l, err := read(file)
	if err != nil {
		return err
	}

	fmt.Println(l.report())
	return nil
}

func read(r io.Reader) (*lockfinder, error) {
	l := &lockfinder{m: map[string]string{}}
	scn := bufio.NewScanner(r)
	for scn.Scan() {
		l.handleLine(scn.Bytes())
	}
	if err := scn.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

type lockfinder struct {
	m map[string]string
}

// entry is the subset of a debug log line written by internal/mutex.
type entry struct {
	Msg   string `json:"msg"`
	Mutex string `json:"mutex"`
}

func (l *lockfinder) handleLine(line []byte) {
	var e entry
	if err := json.Unmarshal(line, &e); err != nil || e.Mutex == "" {
		return
	}
	fn, op, ok := strings.Cut(strings.TrimSuffix(e.Msg, " lock"), " ")
	if !ok {
		// "releases lock" carries no holder.
		fn, op = "", fn
	}
	switch op {
	case "seeks":
	case "receives":
		l.m[e.Mutex] = fn
	case "releases":
		l.m[e.Mutex] = ""
	}
}

func (l *lockfinder) report() string {
	locks := make([]string, 0, len(l.m))
	for lock := range l.m {
		locks = append(locks, lock)
	}
	sort.Strings(locks)

	var buf strings.Builder
	fmt.Fprintf(&buf, "report\n")
	for _, lock := range locks {
		if fn := l.m[lock]; fn != "" {
			fmt.Fprintf(&buf, "- %s is held by %s\n", lock, fn)
		}
	}
	for _, lock := range locks {
		if l.m[lock] == "" {
			fmt.Fprintf(&buf, "- %s is not held\n", lock)
		}
	}
	return buf.String()
}
