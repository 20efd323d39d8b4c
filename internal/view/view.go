// Package view derives display models from records. Nothing here does I/O;
// the web templates and the terminal renderer only format what these functions return.
package view

import (
	"errors"
	"time"

	"github.com/BearBump/trackbook/internal/models"
)

// ToastDuration: сколько уведомление висит на экране.
const ToastDuration = 3 * time.Second

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Message string    `json:"message"`
	Kind    ToastKind `json:"kind"`
}

func (t Toast) IsZero() bool { return t.Message == "" }

func SuccessToast(msg string) Toast {
	return Toast{Message: msg, Kind: ToastSuccess}
}

// ErrorToast shows user-facing errors as is and hides everything else behind a generic text.
func ErrorToast(err error) Toast {
	var verr *models.ValidationError
	var derr *models.DuplicateError
	switch {
	case errors.As(err, &verr):
		return Toast{Message: verr.Error(), Kind: ToastError}
	case errors.As(err, &derr):
		return Toast{Message: derr.Error(), Kind: ToastError}
	default:
		return Toast{Message: "Something went wrong, please try again", Kind: ToastError}
	}
}
