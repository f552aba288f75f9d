/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic at an entry point into a logged error, a
// crash report on disk and a non-zero exit.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"time"

	applog "quotegen/internal/log"
	"quotegen/internal/version"
)

// exitFn is replaced in tests so Recover does not terminate the process.
var exitFn = os.Exit

// Info describes what the process was doing when it crashed. Dir overrides
// the report directory (default os.TempDir). Details are written as sorted
// key/value lines, e.g. the image size and quote length of the render.
type Info struct {
	Dir     string
	Details map[string]string
	// Upload, if set, receives the report after it is written.
	Upload func(report []byte)
}

// Recover captures a panic, logs it with the stack trace, writes a report
// file and exits with status 2.
//
// Usage: defer crash.Recover(info)
func Recover(info *Info) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	path, report, err := writeReport(info, r, stack)
	if err != nil {
		l.Error("crash report not written", slog.Any("err", err), slog.String("path", path))
	}
	if info != nil && info.Upload != nil {
		info.Upload(report)
	}
	_, _ = fmt.Fprintf(os.Stderr, "quotegen stopped unexpectedly. Crash report: %s\nVersion: %s (%s/%s)\n",
		path, version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func writeReport(info *Info, panicVal any, stack []byte) (string, []byte, error) {
	dir := os.TempDir()
	if info != nil && info.Dir != "" {
		dir = info.Dir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dir, nil, err
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("quotegen-crash-%s.log", time.Now().Format("20060102-150405.000")))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "quotegen crash report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if info != nil && len(info.Details) > 0 {
		keys := make([]string, 0, len(info.Details))
		for k := range info.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, "%s: %s\n", k, info.Details[k])
		}
	}
	fmt.Fprintf(&buf, "\nPanic: %v\n\nStack:\n%s\n", panicVal, stack)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, buf.Bytes(), err
	}
	return path, buf.Bytes(), nil
}
