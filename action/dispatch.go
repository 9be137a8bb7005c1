package action

// handlerKind selects which summarization shape a dispatch table entry
// uses.
type handlerKind int

const (
	hOpen handlerKind = iota
	hRename
	hStatFd
	hStatPath
	hNetwork
	hSocket
	hMknod
	hMmap
	hSetScheduler
	hEpollCtl
	hTimerCreate
)

// handler names which argument positions a summarization handler reads.
// Only the fields relevant to kind are populated; a single flat struct
// keeps the dispatch table one map literal instead of a family of small
// handler types, since every handler is a pure function of a handful of
// integer argument indices.
type handler struct {
	kind handlerKind

	relFDIdx *int // Open, StatPath: index of the directory fd arg, if any
	pathIdx  int  // Open, StatPath: index of the path arg
	flagsIdx int  // Open: index of the flags arg

	relFDSrcIdx    *int // Rename
	pathSrcIdx     int
	relFDDstIdx    *int
	pathDstIdx     int
	renameFlagsIdx *int

	fdIdx int // StatFd

	sockaddrIdx int // Network
	modeIdx     int // Mknod
	protIdx     int // Mmap
	policyIdx   int // SetScheduler
}

func intp(v int) *int { return &v }

// dispatchTable is the static, package-scope, immutable map from syscall
// name to summarization handler. Built once at init time; never mutated.
var dispatchTable = map[string]handler{
	"open":   {kind: hOpen, pathIdx: 0, flagsIdx: 1},
	"creat":  {kind: hOpen, pathIdx: 0, flagsIdx: -1},
	"openat": {kind: hOpen, relFDIdx: intp(0), pathIdx: 1, flagsIdx: 2},

	"rename":   {kind: hRename, pathSrcIdx: 0, pathDstIdx: 1},
	"renameat": {kind: hRename, relFDSrcIdx: intp(0), pathSrcIdx: 1, relFDDstIdx: intp(2), pathDstIdx: 3},
	"renameat2": {
		kind: hRename, relFDSrcIdx: intp(0), pathSrcIdx: 1,
		relFDDstIdx: intp(2), pathDstIdx: 3, renameFlagsIdx: intp(4),
	},

	"stat":       {kind: hStatPath, pathIdx: 0},
	"lstat":      {kind: hStatPath, pathIdx: 0},
	"fstatat":    {kind: hStatPath, relFDIdx: intp(0), pathIdx: 1},
	"newfstatat": {kind: hStatPath, relFDIdx: intp(0), pathIdx: 1},
	"fstat":      {kind: hStatFd, fdIdx: 0},
	"getdents":   {kind: hStatFd, fdIdx: 0},

	"connect":  {kind: hNetwork, sockaddrIdx: 1},
	"bind":     {kind: hNetwork, sockaddrIdx: 1},
	"recvfrom": {kind: hNetwork, sockaddrIdx: 4},
	"sendto":   {kind: hNetwork, sockaddrIdx: 4},
	"socket":   {kind: hSocket},

	"mknod":   {kind: hMknod, modeIdx: 1},
	"mknodat": {kind: hMknod, modeIdx: 2},

	"mmap":          {kind: hMmap, protIdx: 2},
	"mmap2":         {kind: hMmap, protIdx: 2},
	"shmat":         {kind: hMmap, protIdx: 2},
	"mprotect":      {kind: hMmap, protIdx: 2},
	"pkey_mprotect": {kind: hMmap, protIdx: 2},

	"sched_setscheduler": {kind: hSetScheduler, policyIdx: 1},

	"epoll_ctl":    {kind: hEpollCtl},
	"timer_create": {kind: hTimerCreate},
}
