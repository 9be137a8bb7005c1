package action

import (
	"path/filepath"
	"regexp"
	"strings"

	"unitharden/trace"
)

// pseudoFDPathRe matches strace's rendering of non-filesystem fds such as
// "socket:[12345]" and "pipe:[98765]". The prefix is lowercase letters only,
// so a name containing "_" (e.g. "anon_inode:[eventpoll]") is not matched.
var pseudoFDPathRe = regexp.MustCompile(`^[a-z]+:\[[0-9a-z]+\]/?$`)

// IsPseudoFDPath reports whether path looks like strace's rendering of a
// non-filesystem file descriptor rather than a real path.
func IsPseudoFDPath(path string) bool {
	return pseudoFDPathRe.MatchString(path)
}

// ResolvePath resolves path (raw bytes from a BufferExpr) to an absolute
// filesystem path, using the fd at relFDIdx (if hasRelFD) as the base
// directory when path is relative. It returns false if the path cannot be
// resolved to anything meaningful (no absolute path and no usable fd
// metadata, or the fd metadata is itself a pseudo-fd path).
func ResolvePath(path []byte, relFDIdx int, hasRelFD bool, sys trace.Syscall) (string, bool) {
	p := string(path)
	var joined string
	switch {
	case strings.HasPrefix(p, "/"):
		joined = p
	case hasRelFD:
		arg, ok := sys.Arg(relFDIdx)
		if !ok {
			return "", false
		}
		ie, ok := arg.(trace.IntegerExpr)
		if !ok || len(ie.Metadata) == 0 {
			return "", false
		}
		meta := string(ie.Metadata)
		if IsPseudoFDPath(meta) {
			return "", false
		}
		joined = filepath.Join(meta, p)
	default:
		return "", false
	}

	if IsPseudoFDPath(joined) {
		return "", false
	}

	abs, err := filepath.Abs(joined)
	if err != nil {
		return joined, true
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, true
	}
	return abs, true
}
