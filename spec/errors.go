package spec

import "errors"

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrSkillNotFound      = errors.New("skill not found")
	ErrSkillAlreadyExists = errors.New("skill already exists")
	ErrFileNotFound       = errors.New("file not found")

	// ErrPathTraversal is the security rejection for any resolved path that
	// is not the skill root or a descendant of it. It must never be folded
	// into a generic I/O error: callers distinguish "not found" from
	// "forbidden".
	ErrPathTraversal = errors.New("path traversal not allowed")

	// ErrToolDenied signals a policy denial of the caller's requested tool,
	// not a failure of the host's own operation.
	ErrToolDenied = errors.New("tool not allowed")
)
