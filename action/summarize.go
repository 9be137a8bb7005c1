package action

import (
	"reflect"
	"sort"

	"unitharden/errors"
	"unitharden/logging"
	"unitharden/setspec"
	"unitharden/trace"
)

type socketState struct {
	af    SocketFamily
	proto SocketProtocol
}

// Summarize folds a sequence of already-parsed syscalls into a flat,
// adjacent-duplicate-deduplicated slice of ProgramActions, ending with a
// single aggregate SyscallsAction. It consumes syscalls exactly once, runs
// single-threaded, and maintains per-pid fd->protocol correlation state
// internally.
func Summarize(syscalls <-chan trace.Syscall) ([]ProgramAction, error) {
	var out []ProgramAction
	counts := make(map[string]int)
	fdState := make(map[int]map[int]socketState)

	for sys := range syscalls {
		counts[sys.Name]++

		h, ok := dispatchTable[sys.Name]
		if !ok {
			continue
		}

		acts, err := dispatch(sys, h, fdState)
		if err != nil {
			return nil, err
		}
		out = append(out, acts...)
	}

	names := sortedKeys(counts)
	log := logging.Default()
	for _, name := range names {
		log.Debug("syscall observed", "name", name, "count", counts[name])
	}

	out = dedupAdjacent(out)
	out = append(out, SyscallsAction{Names: setspec.Some(names)})
	return out, nil
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func dedupAdjacent(acts []ProgramAction) []ProgramAction {
	if len(acts) == 0 {
		return acts
	}
	out := acts[:1]
	for _, a := range acts[1:] {
		if reflect.DeepEqual(out[len(out)-1], a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func dispatch(sys trace.Syscall, h handler, fdState map[int]map[int]socketState) ([]ProgramAction, error) {
	switch h.kind {
	case hOpen:
		return summarizeOpen(sys, h)
	case hRename:
		return summarizeRename(sys, h)
	case hStatFd:
		return summarizeStatFd(sys, h)
	case hStatPath:
		return summarizeStatPath(sys, h)
	case hNetwork:
		return summarizeNetwork(sys, h, fdState)
	case hSocket:
		return summarizeSocket(sys, fdState)
	case hMknod:
		return summarizeMknod(sys, h)
	case hMmap:
		return summarizeMmap(sys, h)
	case hSetScheduler:
		return summarizeSetScheduler(sys, h)
	case hEpollCtl:
		return summarizeEpollCtl(sys)
	case hTimerCreate:
		return summarizeTimerCreate(sys)
	default:
		return nil, nil
	}
}

func malformed(sys trace.Syscall, why string) error {
	return errors.WrapWithDetail(errors.ErrUnexpectedExpressionShape, errors.ErrMalformedSyscall, "summarize:"+sys.Name, why)
}

func asBuffer(e trace.Expression) (trace.BufferExpr, bool) {
	b, ok := e.(trace.BufferExpr)
	return b, ok
}

func asInteger(e trace.Expression) (trace.IntegerExpr, bool) {
	ie, ok := e.(trace.IntegerExpr)
	return ie, ok
}

func asStruct(e trace.Expression) (trace.StructExpr, bool) {
	se, ok := e.(trace.StructExpr)
	return se, ok
}

func argBuffer(sys trace.Syscall, idx int) ([]byte, error) {
	a, ok := sys.Arg(idx)
	if !ok {
		return nil, malformed(sys, "missing argument")
	}
	b, ok := asBuffer(a)
	if !ok {
		return nil, malformed(sys, "expected a buffer argument")
	}
	return b.Value, nil
}

func argInteger(sys trace.Syscall, idx int) (trace.IntegerExpr, error) {
	a, ok := sys.Arg(idx)
	if !ok {
		return trace.IntegerExpr{}, malformed(sys, "missing argument")
	}
	ie, ok := asInteger(a)
	if !ok {
		return trace.IntegerExpr{}, malformed(sys, "expected an integer argument")
	}
	return ie, nil
}

func summarizeOpen(sys trace.Syscall, h handler) ([]ProgramAction, error) {
	pathBytes, err := argBuffer(sys, h.pathIdx)
	if err != nil {
		return nil, err
	}
	hasRelFD := h.relFDIdx != nil
	relFDIdx := 0
	if hasRelFD {
		relFDIdx = *h.relFDIdx
	}
	path, ok := ResolvePath(pathBytes, relFDIdx, hasRelFD, sys)
	if !ok {
		return nil, nil
	}

	var flags trace.IntegerValue
	if h.flagsIdx >= 0 {
		fe, err := argInteger(sys, h.flagsIdx)
		if err != nil {
			return nil, err
		}
		flags = fe.Value
	} else {
		// creat(2): implied O_CREAT|O_WRONLY|O_TRUNC.
		flags = trace.IntOr{
			Left:  trace.IntOr{Left: trace.IntNamedConst("O_CREAT"), Right: trace.IntNamedConst("O_WRONLY")},
			Right: trace.IntNamedConst("O_TRUNC"),
		}
	}

	var out []ProgramAction
	if flags.IsFlagSet("O_CREAT") {
		out = append(out, CreateAction{Path: path})
	}
	if flags.IsFlagSet("O_WRONLY") || flags.IsFlagSet("O_RDWR") || flags.IsFlagSet("O_TRUNC") {
		out = append(out, WriteAction{Path: path})
	}
	if !flags.IsFlagSet("O_WRONLY") {
		out = append(out, ReadAction{Path: path})
	}
	return out, nil
}

func summarizeRename(sys trace.Syscall, h handler) ([]ProgramAction, error) {
	srcBytes, err := argBuffer(sys, h.pathSrcIdx)
	if err != nil {
		return nil, err
	}
	dstBytes, err := argBuffer(sys, h.pathDstIdx)
	if err != nil {
		return nil, err
	}

	srcHasFD := h.relFDSrcIdx != nil
	srcFDIdx := 0
	if srcHasFD {
		srcFDIdx = *h.relFDSrcIdx
	}
	dstHasFD := h.relFDDstIdx != nil
	dstFDIdx := 0
	if dstHasFD {
		dstFDIdx = *h.relFDDstIdx
	}

	src, srcOK := ResolvePath(srcBytes, srcFDIdx, srcHasFD, sys)
	dst, dstOK := ResolvePath(dstBytes, dstFDIdx, dstHasFD, sys)

	exchange := false
	if h.renameFlagsIdx != nil {
		fe, err := argInteger(sys, *h.renameFlagsIdx)
		if err != nil {
			return nil, err
		}
		exchange = fe.Value.IsFlagSet("RENAME_EXCHANGE")
	}

	var out []ProgramAction
	if srcOK {
		out = append(out, ReadAction{Path: src}, WriteAction{Path: src})
	}
	if dstOK {
		if exchange {
			out = append(out, ReadAction{Path: dst})
		} else {
			out = append(out, CreateAction{Path: dst})
		}
		out = append(out, WriteAction{Path: dst})
	}
	return out, nil
}

func summarizeStatFd(sys trace.Syscall, h handler) ([]ProgramAction, error) {
	fe, err := argInteger(sys, h.fdIdx)
	if err != nil {
		return nil, err
	}
	if len(fe.Metadata) == 0 {
		return nil, nil
	}
	path := string(fe.Metadata)
	if IsPseudoFDPath(path) {
		return nil, nil
	}
	return []ProgramAction{ReadAction{Path: path}}, nil
}

func summarizeStatPath(sys trace.Syscall, h handler) ([]ProgramAction, error) {
	pathBytes, err := argBuffer(sys, h.pathIdx)
	if err != nil {
		return nil, err
	}
	hasRelFD := h.relFDIdx != nil
	relFDIdx := 0
	if hasRelFD {
		relFDIdx = *h.relFDIdx
	}
	path, ok := ResolvePath(pathBytes, relFDIdx, hasRelFD, sys)
	if !ok {
		return nil, nil
	}
	return []ProgramAction{ReadAction{Path: path}}, nil
}

func summarizeSocket(sys trace.Syscall, fdState map[int]map[int]socketState) ([]ProgramAction, error) {
	domainArg, err := argInteger(sys, 0)
	if err != nil {
		return nil, err
	}
	typeArg, err := argInteger(sys, 1)
	if err != nil {
		return nil, err
	}

	af := firstFlag(domainArg.Value)
	proto := firstFlagWithPrefix(typeArg.Value, "SOCK_")
	if af == "" || proto == "" {
		return nil, malformed(sys, "socket family or protocol not decoded")
	}

	fd := int(sys.RetVal)
	if fd >= 0 {
		if fdState[sys.Pid] == nil {
			fdState[sys.Pid] = make(map[int]socketState)
		}
		fdState[sys.Pid][fd] = socketState{af: SocketFamily(af), proto: SocketProtocol(proto)}
	}

	return []ProgramAction{NetworkActivityAction{Activity: NetworkActivity{
		AF:        setspec.One(SocketFamily(af)),
		Proto:     setspec.One(SocketProtocol(proto)),
		Kind:      setspec.One(SocketCreation),
		LocalPort: setspec.CountableAll(setspec.PortDomain),
	}}}, nil
}

func summarizeNetwork(sys trace.Syscall, h handler, fdState map[int]map[int]socketState) ([]ProgramAction, error) {
	addrArg, ok := sys.Arg(h.sockaddrIdx)
	if !ok {
		return nil, malformed(sys, "missing sockaddr argument")
	}
	st, ok := asStruct(addrArg)

	var out []ProgramAction
	if ok {
		famArg, famOK := asInteger(valueOr(st.Members["sa_family"]))
		if famOK && famArg.Value.IsFlagSet("AF_UNIX") {
			if pathExpr, present := st.Members["sun_path"]; present {
				if buf, isBuf := asBuffer(pathExpr); isBuf && buf.Kind != trace.BufferAbstractPath {
					out = append(out, ReadAction{Path: string(buf.Value)})
				}
			}
		}
	}

	if sys.Name != "bind" {
		return out, nil
	}

	fdArg, err := argInteger(sys, 0)
	if err != nil {
		return out, err
	}
	fdLit, isLit := fdArg.Value.Literal()
	if !isLit {
		return out, malformed(sys, "bind fd is not a literal")
	}
	st2, found := fdState[sys.Pid][int(fdLit)]
	if !found {
		return out, nil
	}

	localPort := setspec.CountableEmpty(setspec.PortDomain)
	if ok {
		for name, val := range st.Members {
			if !hasPortSuffix(name) {
				continue
			}
			ie, isInt := asInteger(val)
			if !isInt {
				continue
			}
			mc, isMacro := ie.Value.(trace.IntMacroCall)
			if !isMacro {
				continue
			}
			lit, litOK := trace.MacroLiteralArg(mc.Call)
			if !litOK {
				logging.Default().Debug("non-literal port argument in macro call, treating as unknown",
					"syscall", sys.Name, "macro", mc.Call.Name)
				continue
			}
			localPort = setspec.CountableOne(setspec.PortDomain, setspec.Port(lit))
			break
		}
	}

	out = append(out, NetworkActivityAction{Activity: NetworkActivity{
		AF:        setspec.One(st2.af),
		Proto:     setspec.One(st2.proto),
		Kind:      setspec.One(Bind),
		LocalPort: localPort,
	}})
	return out, nil
}

func hasPortSuffix(name string) bool {
	return len(name) >= 5 && name[len(name)-5:] == "_port"
}

func valueOr(e trace.Expression) trace.Expression {
	if e == nil {
		return trace.IntegerExpr{}
	}
	return e
}

func summarizeMknod(sys trace.Syscall, h handler) ([]ProgramAction, error) {
	modeArg, err := argInteger(sys, h.modeIdx)
	if err != nil {
		return nil, err
	}
	if modeArg.Value.IsFlagSet("S_IFBLK") || modeArg.Value.IsFlagSet("S_IFCHR") {
		return []ProgramAction{MknodSpecialAction{}}, nil
	}
	return nil, nil
}

func summarizeMmap(sys trace.Syscall, h handler) ([]ProgramAction, error) {
	protArg, err := argInteger(sys, h.protIdx)
	if err != nil {
		return nil, err
	}
	if protArg.Value.IsFlagSet("PROT_WRITE") && protArg.Value.IsFlagSet("PROT_EXEC") {
		return []ProgramAction{WriteExecuteMemoryMappingAction{}}, nil
	}
	return nil, nil
}

func summarizeSetScheduler(sys trace.Syscall, h handler) ([]ProgramAction, error) {
	policyArg, err := argInteger(sys, h.policyIdx)
	if err != nil {
		return nil, err
	}
	if policyArg.Value.IsFlagSet("SCHED_FIFO") || policyArg.Value.IsFlagSet("SCHED_RR") {
		return []ProgramAction{SetRealtimeSchedulerAction{}}, nil
	}
	return nil, nil
}

func summarizeEpollCtl(sys trace.Syscall) ([]ProgramAction, error) {
	opArg, err := argInteger(sys, 1)
	if err != nil {
		return nil, err
	}
	if !opArg.Value.IsFlagSet("EPOLL_CTL_ADD") {
		return nil, nil
	}
	eventArg, ok := sys.Arg(3)
	if !ok {
		return nil, nil
	}
	st, ok := asStruct(eventArg)
	if !ok {
		return nil, nil
	}
	eventsArg, ok := asInteger(valueOr(st.Members["events"]))
	if !ok {
		return nil, nil
	}
	if eventsArg.Value.IsFlagSet("EPOLLWAKEUP") {
		return []ProgramAction{WakeupAction{}}, nil
	}
	return nil, nil
}

func summarizeTimerCreate(sys trace.Syscall) ([]ProgramAction, error) {
	clockArg, err := argInteger(sys, 0)
	if err != nil {
		return nil, err
	}
	if clockArg.Value.IsFlagSet("CLOCK_REALTIME_ALARM") || clockArg.Value.IsFlagSet("CLOCK_BOOTTIME_ALARM") {
		return []ProgramAction{SetAlarmAction{}}, nil
	}
	return nil, nil
}

func firstFlag(v trace.IntegerValue) string {
	flags := v.Flags()
	if len(flags) == 0 {
		return ""
	}
	return flags[0]
}

func firstFlagWithPrefix(v trace.IntegerValue, prefix string) string {
	for _, f := range v.Flags() {
		if len(f) >= len(prefix) && f[:len(prefix)] == prefix {
			return f
		}
	}
	return ""
}
