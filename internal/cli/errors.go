package cli

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	what  string
	where string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found in %s", e.what, e.where)
}

func errNotFound(what, where string) error {
	return notFoundError{what: what, where: where}
}

// ExitCode maps a command error to the process exit status: 0 on success,
// 2 when the repository has nothing to work on, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var nf notFoundError
	if errors.As(err, &nf) {
		return 2
	}
	return 1
}
