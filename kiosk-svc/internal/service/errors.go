package service

import "errors"

var (
	ErrItemNotFound     = errors.New("menu item not found")
	ErrStoreNotFound    = errors.New("store not found")
	ErrNoMatchingStores = errors.New("no store sells this category")
	ErrNoActiveOrder    = errors.New("no active order")
	ErrNothingToPay     = errors.New("nothing to pay")
	ErrMissingInput     = errors.New("message is required")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUpstream         = errors.New("upstream failure")
)
