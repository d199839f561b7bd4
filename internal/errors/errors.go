// Package errors provides domain-specific sentinel errors for the bot.
// Use errors.Is() to check these errors in your code.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogEmpty indicates a feed that parsed to zero products.
	ErrCatalogEmpty = errors.New("catalog is empty")

	// ErrFeedUnavailable indicates the catalog feed could not be read.
	ErrFeedUnavailable = errors.New("catalog feed unavailable")

	// ErrDeliveryDisabled indicates outbound delivery has no access token.
	ErrDeliveryDisabled = errors.New("message delivery disabled")
)

// Wrap annotates err with a message, preserving the chain for errors.Is.
// Returns nil if err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf annotates err with a formatted message.
// Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
