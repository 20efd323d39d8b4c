// Package web serves the two record lists as server-rendered HTML pages.
// Every POST mutates through a controller and redirects back (post/redirect/get),
// so each page load is a full re-render from store state.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/platform"
	"github.com/BearBump/trackbook/internal/services/contacts"
	"github.com/BearBump/trackbook/internal/services/shipments"
	"github.com/BearBump/trackbook/internal/view"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Carriers: варианты в выпадающем списке формы.
var Carriers = []string{"UPS", "FedEx", "USPS", "DHL", "Other"}

type Handler struct {
	shipments *shipments.Service
	contacts  *contacts.Service
	tpl       *template.Template
	loc       *time.Location
}

func New(sh *shipments.Service, ct *contacts.Service) *Handler {
	tpl := template.Must(template.New("").Funcs(template.FuncMap{
		"toastSeconds": func() int { return int(view.ToastDuration / time.Second) },
	}).ParseFS(templatesFS, "templates/*.html"))
	return &Handler{shipments: sh, contacts: ct, tpl: tpl, loc: time.Local}
}

// WithLocation sets the zone used for "last contacted" dates.
func (h *Handler) WithLocation(loc *time.Location) *Handler {
	if loc != nil {
		h.loc = loc
	}
	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/shipments", http.StatusFound)
	})

	r.Get("/shipments", h.shipmentsPage)
	r.Post("/shipments", h.submitTracking)
	r.Post("/shipments/{id}/toggle", h.toggleShipment)
	r.Post("/shipments/{id}/delete", h.deleteShipment)

	r.Get("/contacts", h.contactsPage)
	r.Post("/contacts", h.submitContact)
	r.Post("/contacts/{id}/call", h.callContact)
	r.Post("/contacts/{id}/delete", h.deleteContact)
}

type shipmentsPageData struct {
	Title    string
	Active   string
	Toast    view.Toast
	Carriers []string
	List     view.ShipmentList
}

type contactsPageData struct {
	Title  string
	Active string
	Toast  view.Toast
	List   view.ContactList
}

func (h *Handler) shipmentsPage(w http.ResponseWriter, r *http.Request) {
	expanded := readExpand(r)
	h.render(w, "shipments.html", shipmentsPageData{
		Title:    "Package Tracker",
		Active:   "shipments",
		Toast:    popToast(w, r),
		Carriers: Carriers,
		List:     view.Shipments(h.shipments.List(), expanded),
	})
}

func (h *Handler) submitTracking(w http.ResponseWriter, r *http.Request) {
	in := models.ShipmentCreateInput{
		TrackingNumber: r.PostFormValue("trackingNumber"),
		Carrier:        r.PostFormValue("carrier"),
	}
	if _, err := h.shipments.SubmitTracking(r.Context(), in); err != nil {
		h.fail(w, err)
	} else {
		setToast(w, view.SuccessToast(shipments.MsgAdded))
	}
	http.Redirect(w, r, "/shipments", http.StatusSeeOther)
}

// toggleShipment меняет только cookie раскрытых карточек, хранилище не трогает.
func (h *Handler) toggleShipment(w http.ResponseWriter, r *http.Request) {
	expanded := readExpand(r)
	expanded.Toggle(chi.URLParam(r, "id"))
	expanded.Retain(func(id string) bool {
		_, ok := h.shipments.Get(id)
		return ok
	})
	writeExpand(w, expanded)
	http.Redirect(w, r, "/shipments", http.StatusSeeOther)
}

func (h *Handler) deleteShipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := h.shipments.DeleteTracking(r.Context(), id, confirmed(r))
	switch {
	case err != nil:
		h.fail(w, err)
	case removed:
		setToast(w, view.SuccessToast(shipments.MsgRemoved))
		expanded := readExpand(r)
		if expanded.IsExpanded(id) {
			expanded.Toggle(id)
			writeExpand(w, expanded)
		}
	}
	http.Redirect(w, r, "/shipments", http.StatusSeeOther)
}

func (h *Handler) contactsPage(w http.ResponseWriter, r *http.Request) {
	q := view.ContactQuery{
		Term:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	found := h.contacts.Search(q.Term, q.Category)
	h.render(w, "contacts.html", contactsPageData{
		Title:  "Phone Contacts",
		Active: "contacts",
		Toast:  popToast(w, r),
		List:   view.Contacts(found, len(h.contacts.List()), q, h.contacts.Categories(), h.loc),
	})
}

func (h *Handler) submitContact(w http.ResponseWriter, r *http.Request) {
	in := models.ContactCreateInput{
		Name:     r.PostFormValue("name"),
		Phone:    r.PostFormValue("phone"),
		Category: r.PostFormValue("category"),
		Notes:    r.PostFormValue("notes"),
	}
	if _, err := h.contacts.SubmitContact(r.Context(), in); err != nil {
		h.fail(w, err)
	} else {
		setToast(w, view.SuccessToast(contacts.MsgAdded))
	}
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}

// callContact фиксирует звонок и отдаёт браузеру tel: ссылку, дальше звонит ОС.
func (h *Handler) callContact(w http.ResponseWriter, r *http.Request) {
	link := platform.NewTelLink(nil)
	called, err := h.contacts.Call(r.Context(), chi.URLParam(r, "id"), link)
	if err != nil {
		h.fail(w, err)
	}
	if !called || link.URI() == "" {
		http.Redirect(w, r, "/contacts", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, link.URI(), http.StatusSeeOther)
}

func (h *Handler) deleteContact(w http.ResponseWriter, r *http.Request) {
	removed, err := h.contacts.Delete(r.Context(), chi.URLParam(r, "id"), confirmed(r))
	switch {
	case err != nil:
		h.fail(w, err)
	case removed:
		setToast(w, view.SuccessToast(contacts.MsgDeleted))
	}
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}

// confirmed: браузер уже показал confirm(), форма приходит с confirm=yes только при согласии.
func confirmed(r *http.Request) platform.Always {
	return platform.Always(r.PostFormValue("confirm") == "yes")
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	t := view.ErrorToast(err)
	if !isUserError(err) {
		slog.Error("web action failed", "error", err.Error())
	}
	setToast(w, t)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.tpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render page", "template", name, "error", err.Error())
	}
}
