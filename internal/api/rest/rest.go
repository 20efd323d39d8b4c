// Package rest exposes the shipment and contact controllers as a JSON API
// registered on a grpc-gateway runtime.ServeMux.
package rest

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/platform"
	"github.com/BearBump/trackbook/internal/services/contacts"
	"github.com/BearBump/trackbook/internal/services/shipments"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/pkg/errors"
)

//go:embed swagger.json
var SwaggerJSON []byte

const maxBodyBytes = 1 << 20

type API struct {
	shipments *shipments.Service
	contacts  *contacts.Service
}

func New(sh *shipments.Service, ct *contacts.Service) *API {
	return &API{shipments: sh, contacts: ct}
}

// Handler returns a gateway mux with all routes registered. Paths are absolute
// (/api/v1/...), so mount it without stripping the prefix.
func (a *API) Handler() (http.Handler, error) {
	mux := runtime.NewServeMux()
	if err := a.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

func (a *API) Register(mux *runtime.ServeMux) error {
	routes := []struct {
		method, path string
		h            runtime.HandlerFunc
	}{
		{http.MethodGet, "/api/v1/shipments", a.listShipments},
		{http.MethodPost, "/api/v1/shipments", a.createShipment},
		{http.MethodGet, "/api/v1/shipments/{id}", a.getShipment},
		{http.MethodDelete, "/api/v1/shipments/{id}", a.deleteShipment},
		{http.MethodGet, "/api/v1/contacts", a.listContacts},
		{http.MethodPost, "/api/v1/contacts", a.createContact},
		{http.MethodGet, "/api/v1/contacts/{id}", a.getContact},
		{http.MethodPost, "/api/v1/contacts/{id}/call", a.callContact},
		{http.MethodDelete, "/api/v1/contacts/{id}", a.deleteContact},
		{http.MethodGet, "/api/v1/categories", a.listCategories},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.path, rt.h); err != nil {
			return errors.Wrapf(err, "register %s %s", rt.method, rt.path)
		}
	}
	return nil
}

type shipmentInput struct {
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

type contactInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

type shipmentsResponse struct {
	Count     int               `json:"count"`
	Shipments []models.Shipment `json:"shipments"`
}

type contactsResponse struct {
	Count    int              `json:"count"`
	Shown    int              `json:"shown"`
	Contacts []models.Contact `json:"contacts"`
}

type callResponse struct {
	Called bool   `json:"called"`
	Tel    string `json:"tel,omitempty"`
}

type deleteResponse struct {
	Removed bool `json:"removed"`
}

func (a *API) listShipments(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	list := a.shipments.List()
	writeJSON(w, http.StatusOK, shipmentsResponse{Count: len(list), Shipments: list})
}

func (a *API) createShipment(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var in shipmentInput
	if !decode(w, r, &in) {
		return
	}
	sh, err := a.shipments.SubmitTracking(r.Context(), models.ShipmentCreateInput{
		TrackingNumber: in.TrackingNumber,
		Carrier:        in.Carrier,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sh)
}

func (a *API) getShipment(w http.ResponseWriter, r *http.Request, p map[string]string) {
	sh, ok := a.shipments.Get(p["id"])
	if !ok {
		writeProblem(w, http.StatusNotFound, "not_found", "shipment not found")
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

// deleteShipment: запрос через API уже является подтверждением.
func (a *API) deleteShipment(w http.ResponseWriter, r *http.Request, p map[string]string) {
	removed, err := a.shipments.DeleteTracking(r.Context(), p["id"], platform.Always(true))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Removed: removed})
}

func (a *API) listContacts(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	q := r.URL.Query()
	found := a.contacts.Search(q.Get("q"), q.Get("category"))
	writeJSON(w, http.StatusOK, contactsResponse{
		Count:    len(a.contacts.List()),
		Shown:    len(found),
		Contacts: found,
	})
}

func (a *API) createContact(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var in contactInput
	if !decode(w, r, &in) {
		return
	}
	c, err := a.contacts.SubmitContact(r.Context(), models.ContactCreateInput{
		Name:     in.Name,
		Phone:    in.Phone,
		Category: in.Category,
		Notes:    in.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) getContact(w http.ResponseWriter, r *http.Request, p map[string]string) {
	c, ok := a.contacts.Get(p["id"])
	if !ok {
		writeProblem(w, http.StatusNotFound, "not_found", "contact not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) callContact(w http.ResponseWriter, r *http.Request, p map[string]string) {
	link := platform.NewTelLink(nil)
	called, err := a.contacts.Call(r.Context(), p["id"], link)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, callResponse{Called: called, Tel: link.URI()})
}

func (a *API) deleteContact(w http.ResponseWriter, r *http.Request, p map[string]string) {
	removed, err := a.contacts.Delete(r.Context(), p["id"], platform.Always(true))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Removed: removed})
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": a.contacts.Categories()})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return false
	}
	return true
}

type problem struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	var derr *models.DuplicateError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, problem{Error: verr.Error(), Kind: "validation", Field: verr.Field})
	case errors.As(err, &derr):
		writeJSON(w, http.StatusConflict, problem{Error: derr.Error(), Kind: "duplicate"})
	default:
		slog.Error("api request failed", "error", err.Error())
		writeProblem(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeProblem(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, problem{Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
