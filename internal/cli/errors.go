package cli

import (
	"errors"
	"fmt"

	"scheduler-cli/internal/api"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// friendlyError rewrites API sentinel errors into one-line hints.
func friendlyError(err error, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, api.ErrNotFound) && id != "":
		return errNotFound("task", id)
	case errors.Is(err, api.ErrUnauthorized):
		return fmt.Errorf("%w (check api.token / SCHEDULER_API_TOKEN)", err)
	case errors.Is(err, api.ErrTimeout):
		return fmt.Errorf("%w (check api.url and api.timeout)", err)
	}
	return err
}
