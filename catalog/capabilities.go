package catalog

import "sort"

// Capability name table, adapted from the runtime's CAP_* bounding-set
// table: there it gated which capabilities a container process kept, here
// it validates and enumerates CapabilityBoundingSet= candidate entries.
const (
	capChown            = 0
	capDacOverride       = 1
	capDacReadSearch     = 2
	capFowner            = 3
	capFsetid            = 4
	capKill              = 5
	capSetgid            = 6
	capSetuid            = 7
	capSetpcap           = 8
	capLinuxImmutable    = 9
	capNetBindService    = 10
	capNetBroadcast      = 11
	capNetAdmin          = 12
	capNetRaw            = 13
	capIpcLock           = 14
	capIpcOwner          = 15
	capSysModule         = 16
	capSysRawio          = 17
	capSysChroot         = 18
	capSysPtrace         = 19
	capSysPacct          = 20
	capSysAdmin          = 21
	capSysBoot           = 22
	capSysNice           = 23
	capSysResource       = 24
	capSysTime           = 25
	capSysTtyConfig      = 26
	capMknod             = 27
	capLease             = 28
	capAuditWrite        = 29
	capAuditControl      = 30
	capSetfcap           = 31
	capMacOverride       = 32
	capMacAdmin          = 33
	capSyslog            = 34
	capWakeAlarm         = 35
	capBlockSuspend      = 36
	capAuditRead         = 37
	capPerfmon           = 38
	capBpf               = 39
	capCheckpointRestore = 40
)

var capabilityMap = map[string]int{
	"CAP_CHOWN":              capChown,
	"CAP_DAC_OVERRIDE":       capDacOverride,
	"CAP_DAC_READ_SEARCH":    capDacReadSearch,
	"CAP_FOWNER":             capFowner,
	"CAP_FSETID":             capFsetid,
	"CAP_KILL":               capKill,
	"CAP_SETGID":             capSetgid,
	"CAP_SETUID":             capSetuid,
	"CAP_SETPCAP":            capSetpcap,
	"CAP_LINUX_IMMUTABLE":    capLinuxImmutable,
	"CAP_NET_BIND_SERVICE":   capNetBindService,
	"CAP_NET_BROADCAST":      capNetBroadcast,
	"CAP_NET_ADMIN":          capNetAdmin,
	"CAP_NET_RAW":            capNetRaw,
	"CAP_IPC_LOCK":           capIpcLock,
	"CAP_IPC_OWNER":          capIpcOwner,
	"CAP_SYS_MODULE":         capSysModule,
	"CAP_SYS_RAWIO":          capSysRawio,
	"CAP_SYS_CHROOT":         capSysChroot,
	"CAP_SYS_PTRACE":         capSysPtrace,
	"CAP_SYS_PACCT":          capSysPacct,
	"CAP_SYS_ADMIN":          capSysAdmin,
	"CAP_SYS_BOOT":           capSysBoot,
	"CAP_SYS_NICE":           capSysNice,
	"CAP_SYS_RESOURCE":       capSysResource,
	"CAP_SYS_TIME":           capSysTime,
	"CAP_SYS_TTY_CONFIG":     capSysTtyConfig,
	"CAP_MKNOD":              capMknod,
	"CAP_LEASE":              capLease,
	"CAP_AUDIT_WRITE":        capAuditWrite,
	"CAP_AUDIT_CONTROL":      capAuditControl,
	"CAP_SETFCAP":            capSetfcap,
	"CAP_MAC_OVERRIDE":       capMacOverride,
	"CAP_MAC_ADMIN":          capMacAdmin,
	"CAP_SYSLOG":             capSyslog,
	"CAP_WAKE_ALARM":         capWakeAlarm,
	"CAP_BLOCK_SUSPEND":      capBlockSuspend,
	"CAP_AUDIT_READ":         capAuditRead,
	"CAP_PERFMON":            capPerfmon,
	"CAP_BPF":                capBpf,
	"CAP_CHECKPOINT_RESTORE": capCheckpointRestore,
}

// IsKnownCapability reports whether name is a recognized CAP_* constant.
func IsKnownCapability(name string) bool {
	_, ok := capabilityMap[name]
	return ok
}

// AllCapabilityNames returns every known capability name in sorted order, so
// catalog output built from it is deterministic.
func AllCapabilityNames() []string {
	names := make([]string, 0, len(capabilityMap))
	for name := range capabilityMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
