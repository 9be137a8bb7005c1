// Package action summarizes a stream of parsed syscalls into a small
// algebra of high-level program actions.
package action

import "unitharden/setspec"

// Port is a TCP/UDP port number (1-65535).
type Port = setspec.Port

// SocketFamily is an address family observed in a socket/bind/connect call
// (e.g. AF_INET, AF_INET6, AF_UNIX).
type SocketFamily string

// SocketProtocol is a socket type/protocol observed in a socket call (e.g.
// SOCK_STREAM, SOCK_DGRAM).
type SocketProtocol string

// NetworkActivityKind distinguishes merely creating a socket from binding
// one to a local address.
type NetworkActivityKind int

const (
	// SocketCreation records that a socket of some family/protocol was
	// created, without yet being bound.
	SocketCreation NetworkActivityKind = iota
	// Bind records that a socket was bound to a local address, optionally
	// carrying the port it was bound to.
	Bind
)

// NetworkActivity describes one observed network operation as a set over
// each of its dimensions, so it can be compared against a catalog deny
// predicate by set intersection.
type NetworkActivity struct {
	AF        setspec.SetSpecifier[SocketFamily]
	Proto     setspec.SetSpecifier[SocketProtocol]
	Kind      setspec.SetSpecifier[NetworkActivityKind]
	LocalPort setspec.CountableSetSpecifier[Port]
}

// Intersects reports whether two NetworkActivity descriptions could refer
// to the same concrete operation: every dimension must intersect.
func (n NetworkActivity) Intersects(other NetworkActivity) bool {
	return n.AF.Intersects(other.AF) &&
		n.Proto.Intersects(other.Proto) &&
		n.Kind.Intersects(other.Kind) &&
		n.LocalPort.Intersects(other.LocalPort)
}

// ProgramAction is one high-level behavior observed in a trace.
type ProgramAction interface {
	isProgramAction()
}

// ReadAction records that the program read from a path.
type ReadAction struct{ Path string }

func (ReadAction) isProgramAction() {}

// WriteAction records that the program wrote to a path.
type WriteAction struct{ Path string }

func (WriteAction) isProgramAction() {}

// CreateAction records that the program created a path.
type CreateAction struct{ Path string }

func (CreateAction) isProgramAction() {}

// NetworkActivityAction records a socket/bind observation.
type NetworkActivityAction struct{ Activity NetworkActivity }

func (NetworkActivityAction) isProgramAction() {}

// WriteExecuteMemoryMappingAction records an mmap with both PROT_WRITE and
// PROT_EXEC.
type WriteExecuteMemoryMappingAction struct{}

func (WriteExecuteMemoryMappingAction) isProgramAction() {}

// SetRealtimeSchedulerAction records a sched_setscheduler call requesting
// SCHED_FIFO or SCHED_RR.
type SetRealtimeSchedulerAction struct{}

func (SetRealtimeSchedulerAction) isProgramAction() {}

// WakeupAction records an epoll_ctl(EPOLL_CTL_ADD) with EPOLLWAKEUP set.
type WakeupAction struct{}

func (WakeupAction) isProgramAction() {}

// MknodSpecialAction records creation of a block or character device node.
type MknodSpecialAction struct{}

func (MknodSpecialAction) isProgramAction() {}

// SetAlarmAction records a timer_create on a realtime-alarm clock.
type SetAlarmAction struct{}

func (SetAlarmAction) isProgramAction() {}

// SyscallsAction is the aggregate set of every syscall name observed in the
// trace. Exactly one is appended, last, by the summarizer.
type SyscallsAction struct {
	Names setspec.SetSpecifier[string]
}

func (SyscallsAction) isProgramAction() {}
