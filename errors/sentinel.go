// Package errors provides predefined sentinel errors for common failure cases.
package errors

// Trace and summarization errors.
var (
	// ErrUnterminatedUnfinished indicates a pid has an <unfinished ...>
	// call with no matching resumed line by end of trace.
	ErrUnterminatedUnfinished = &ProfilerError{
		Kind:   ErrParse,
		Detail: "unfinished call never resumed",
	}

	// ErrResumedWithoutUnfinished indicates a resumed line with no
	// matching pending unfinished call.
	ErrResumedWithoutUnfinished = &ProfilerError{
		Kind:   ErrParse,
		Detail: "resumed call with no matching unfinished call",
	}

	// ErrUnexpectedExpressionShape indicates a handler's required
	// argument did not have the expected Expression variant.
	ErrUnexpectedExpressionShape = &ProfilerError{
		Kind:   ErrMalformedSyscall,
		Detail: "argument has unexpected expression shape",
	}

	// ErrMissingArgument indicates a handler's required argument index
	// was out of range for the observed syscall.
	ErrMissingArgument = &ProfilerError{
		Kind:   ErrMalformedSyscall,
		Detail: "required argument missing",
	}
)

// Catalog and resolver errors.
var (
	// ErrCatalogEmptyValues indicates an OptionDescription has no
	// candidate values.
	ErrCatalogEmptyValues = &ProfilerError{
		Kind:   ErrCatalog,
		Detail: "option has no candidate values",
	}

	// ErrCatalogBadOrdering indicates candidate values are not ordered
	// least-to-most restrictive.
	ErrCatalogBadOrdering = &ProfilerError{
		Kind:   ErrCatalog,
		Detail: "candidate values are not ordered least to most restrictive",
	}

	// ErrUnknownSyscallName indicates a SystemCallFilter candidate names a
	// syscall absent from the known syscall table.
	ErrUnknownSyscallName = &ProfilerError{
		Kind:   ErrCatalog,
		Detail: "unknown syscall name",
	}

	// ErrUnknownCapability indicates a CapabilityBoundingSet candidate
	// names a capability absent from the known capability table.
	ErrUnknownCapability = &ProfilerError{
		Kind:   ErrCatalog,
		Detail: "unknown capability",
	}
)

// Unit and tracer glue errors.
var (
	// ErrInvalidUnitName indicates a systemd unit name failed validation.
	ErrInvalidUnitName = &ProfilerError{
		Kind:   ErrInvalidConfig,
		Detail: "invalid systemd unit name",
	}

	// ErrUnitNotFound indicates systemctl reports the unit does not exist.
	ErrUnitNotFound = &ProfilerError{
		Kind:   ErrNotFound,
		Detail: "unit not found",
	}

	// ErrProfileFragmentExists indicates a profiling drop-in fragment is
	// already present and force was not requested.
	ErrProfileFragmentExists = &ProfilerError{
		Kind:   ErrAlreadyExists,
		Detail: "profiling fragment already exists",
	}

	// ErrNoProfileFragment indicates FinishProfile was called without a
	// prior StartProfile.
	ErrNoProfileFragment = &ProfilerError{
		Kind:   ErrInvalidState,
		Detail: "no profiling fragment in place",
	}

	// ErrTracerNotFound indicates the strace binary could not be located
	// on $PATH.
	ErrTracerNotFound = &ProfilerError{
		Kind:   ErrNotFound,
		Detail: "strace binary not found",
	}

	// ErrTracerFailed indicates the strace subprocess exited abnormally.
	ErrTracerFailed = &ProfilerError{
		Kind:   ErrInternal,
		Detail: "strace exited abnormally",
	}
)

// Profile persistence errors.
var (
	// ErrProfileBadMagic indicates a profile file's header magic does not
	// match, so it is not a recognized profile container.
	ErrProfileBadMagic = &ProfilerError{
		Kind:   ErrInvalidConfig,
		Detail: "not a recognized profile file",
	}

	// ErrProfileUnsupportedVersion indicates a profile file's version
	// differs from the one this build writes.
	ErrProfileUnsupportedVersion = &ProfilerError{
		Kind:   ErrInvalidConfig,
		Detail: "unsupported profile version",
	}
)
