package cli

import (
	"errors"
	"fmt"
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

type notAnItemError struct {
	id string
}

func (e notAnItemError) Error() string {
	return fmt.Sprintf("%s is a menu; only menu items can be changed here", e.id)
}

var errConfirmRequired = errors.New("refusing to delete without confirmation; pass --yes when not running in a terminal")
