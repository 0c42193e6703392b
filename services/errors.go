package services

import (
	"errors"

	"github.com/yeremiapane/cook-platform/storage"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrUnauthorized     = errors.New("unauthorized action")
	ErrNotCustomer      = errors.New("only customers can perform this action")
	ErrNotCook          = errors.New("only cooks can perform this action")
	ErrSlotTaken        = errors.New("booking slot already taken")
	ErrNotRequested     = errors.New("booking is not awaiting confirmation")
	ErrNotConfirmed     = errors.New("booking is not confirmed")
	ErrNotPaid          = errors.New("booking is not paid")
	ErrAlreadyPaid      = errors.New("booking already paid")
	ErrPayBeforeConfirm = errors.New("booking must be confirmed before payment")
	ErrNotCancellable   = errors.New("booking can no longer be cancelled")
	ErrNotReviewable    = errors.New("no completed and paid booking for this cook")
	ErrAlreadyReviewed  = errors.New("cook already reviewed")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactive           = errors.New("account is inactive")
)

var userMessages = map[error]string{
	ErrNotFound:           "The requested item was not found.",
	ErrUnauthorized:       "Unauthorized action.",
	ErrNotCustomer:        "Only customers can perform this action.",
	ErrNotCook:            "Only cooks can perform this action.",
	ErrSlotTaken:          "Selected time is no longer available.",
	ErrNotRequested:       "Only requested bookings can be confirmed.",
	ErrNotConfirmed:       "Only confirmed bookings can be completed.",
	ErrNotPaid:            "Only paid bookings can be completed.",
	ErrAlreadyPaid:        "This booking is already paid.",
	ErrPayBeforeConfirm:   "Booking must be confirmed by the cook before payment.",
	ErrNotCancellable:     "This booking can no longer be cancelled.",
	ErrNotReviewable:      "You can rate only after the service is completed and paid.",
	ErrAlreadyReviewed:    "You have already reviewed this cook.",
	ErrUsernameTaken:      "A user with that username already exists.",
	ErrInvalidCredentials: "Invalid username or password.",
	ErrInactive:           "This account is inactive.",

	storage.ErrFileType:     "Upload a valid image. Allowed types are jpg, jpeg, png, gif and webp.",
	storage.ErrFileTooLarge: "The uploaded image is too large (max 5 MB).",
}

// UserMessage returns the flash text for a domain error, or a generic
// message for anything unexpected.
func UserMessage(err error) string {
	for target, msg := range userMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return "Something went wrong. Please try again."
}
