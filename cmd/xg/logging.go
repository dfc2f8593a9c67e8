package main

import (
	"fmt"

	"github.com/tliron/commonlog"

	// registers the "simple" stderr-writing backend, the same blank-import
	// pattern dhamidi-sai's LSP server uses to wire a commonlog backend in
	// without naming it directly at any call site.
	_ "github.com/tliron/commonlog/simple"
)

// pipelineLog is the structured logger for pass summaries and conflict
// resolutions (spec.md §7: "Conflict logs are emitted at pass end, not
// interleaved"). It is initialized once in main and threaded through the
// compile pipeline instead of each pass doing its own I/O.
var pipelineLog commonlog.Logger

func initLogging(verbose bool) {
	verbosity := 0
	if verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)
	pipelineLog = commonlog.GetLogger("xg")
}

func logStage(format string, a ...interface{}) {
	if pipelineLog == nil {
		return
	}
	pipelineLog.Info(fmt.Sprintf(format, a...))
}

func logConflict(format string, a ...interface{}) {
	if pipelineLog == nil {
		return
	}
	pipelineLog.Notice(fmt.Sprintf(format, a...))
}

func logFatal(format string, a ...interface{}) {
	if pipelineLog == nil {
		return
	}
	pipelineLog.Error(fmt.Sprintf(format, a...))
}
