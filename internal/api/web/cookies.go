package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/BearBump/trackbook/internal/view"
)

const (
	toastCookie  = "trackbook_toast"
	expandCookie = "trackbook_expanded"
)

// setToast кладёт уведомление в flash-cookie; его покажет следующий GET.
func setToast(w http.ResponseWriter, t view.Toast) {
	b, err := json.Marshal(t)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     toastCookie,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popToast reads the flash toast and expires the cookie.
func popToast(w http.ResponseWriter, r *http.Request) view.Toast {
	c, err := r.Cookie(toastCookie)
	if err != nil {
		return view.Toast{}
	}
	http.SetCookie(w, &http.Cookie{Name: toastCookie, Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return view.Toast{}
	}
	var t view.Toast
	if err := json.Unmarshal(raw, &t); err != nil {
		return view.Toast{}
	}
	return t
}

func readExpand(r *http.Request) *view.ExpandState {
	c, err := r.Cookie(expandCookie)
	if err != nil {
		return view.NewExpandState()
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return view.NewExpandState()
	}
	return view.ParseExpandState(string(raw))
}

func writeExpand(w http.ResponseWriter, s *view.ExpandState) {
	v := s.String()
	if v == "" {
		http.SetCookie(w, &http.Cookie{Name: expandCookie, Path: "/", MaxAge: -1})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     expandCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(v)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
