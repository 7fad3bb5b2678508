package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/codetrack/codetrack/pkg/core"
)

const (
	exitFailure        = 1
	exitPartialFailure = 2
)

var (
	// globals used to patch over calls to os.Exit() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit
)

func init() {
	log.SetFlags(0)
}

func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
	} else {
		logFatalf("%v", fmt.Errorf(msg+": %w", err))
	}
}

func wrapFatalWithCodef(w io.Writer, code int, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
	osExit(code)
}

type batchReport interface {
	Err() error
}

// exitOnReport exits with a failure code when some files of a batch failed.
//
// A batch where some files succeeded exits with exitPartialFailure.
func exitOnReport(w io.Writer, msg string, report core.Report) {
	exitOnBatch(w, msg, len(report.Done), report)
}

func exitOnBatch(w io.Writer, msg string, done int, report batchReport) {
	err := report.Err()
	if err == nil {
		return
	}
	if done == 0 {
		wrapFatalln(msg, err)
		return
	}
	wrapFatalWithCodef(w, exitPartialFailure, "%s: %v", msg, err)
}
