package overlay

import (
	"fmt"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/ilnpnet/ilnpv6/clock"
)

// logInfo emits an INFO line to the log multicast group, the Go analogue of
// log_services.rs's log_info: "INFO;0x<nid>;<micros>;<message>".
func (e *Engine) logInfo(message string) {
	e.emitLog("INFO", message)
}

// logError emits an ERROR line to the log multicast group, the Go analogue
// of log_services.rs's log_error.
func (e *Engine) logError(message string) {
	e.emitLog("ERROR", message)
	logging.Log(e.Logger, "%s", message)
}

func (e *Engine) emitLog(level, message string) {
	line := fmt.Sprintf("%s;0x%016X;%d;%s", level, e.Local.NID, clock.NowMicros(), message)

	if e.Config.App.Logger || e.under == nil {
		logging.DebugString(e.Logger, line)
		return
	}

	logIface, err := e.InterfaceByName("log")
	if err != nil {
		logging.Log(e.Logger, "emitLog(): no log interface registered: %s", err)
		return
	}
	if err := e.under.multiSend(logIface.Multicast, e.Local.UserID, []byte(line)); err != nil {
		logging.Log(e.Logger, "emitLog(): failed to send log: %s", err)
	}
}

// LogDrop emits an ERROR log line, the exported entry point session uses to
// report best-effort drops (a full receive queue, an unparsable packet)
// without exposing the internal logError spelling.
func (e *Engine) LogDrop(message string) {
	e.logError(message)
}

// EmitPCB serialises the session's PCB and emits it as an INFO log line
// tagged with a topology identifier, the shape a test harness greps for
// when aggregating per-node counters across a run.
func (e *Engine) EmitPCB(topologyTag string) {
	json, err := e.PCB.ToJSONString()
	if err != nil {
		e.logError(fmt.Sprintf("EmitPCB(): failed to serialise PCB: %s", err))
		return
	}
	e.emitLog("INFO", fmt.Sprintf("PCB;%s;%s", topologyTag, json))
}
