package api

import (
	"errors"
	"fmt"
)

var ErrNoBaseURL = errors.New("api url is not defined (set --api-url, MENU_ADMIN_API_URL, or `menu-admin config set api-url <url>`)")

// Error is returned for non-2xx responses.
type Error struct {
	Op         string
	StatusCode int
	// Body is the (truncated) response body, if any.
	Body string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", opMessages[e.Op], e.StatusCode)
}

// Message is the short, user-facing failure text for the operation.
func (e *Error) Message() string { return opMessages[e.Op] }

const (
	OpFetchMenus = "fetchMenus"
	OpCreateMenu = "createMenu"
	OpAddItem    = "addMenuItem"
	OpUpdateItem = "updateMenuItem"
	OpDeleteItem = "deleteMenuItem"
)

var opMessages = map[string]string{
	OpFetchMenus: "failed to fetch menus",
	OpCreateMenu: "failed to create menu",
	OpAddItem:    "failed to add menu item",
	OpUpdateItem: "failed to update menu item",
	OpDeleteItem: "failed to delete menu item",
}

// FailureMessage returns the user-facing failure text for op.
func FailureMessage(op string) string { return opMessages[op] }

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
