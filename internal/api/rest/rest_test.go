package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BearBump/trackbook/internal/integrations/carrier/fake"
	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/services/contacts"
	"github.com/BearBump/trackbook/internal/services/shipments"
	"github.com/BearBump/trackbook/internal/storage"
	"github.com/BearBump/trackbook/internal/storage/memkv"
	"github.com/BearBump/trackbook/internal/store"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) (http.Handler, *shipments.Service, *contacts.Service) {
	t.Helper()
	kv := memkv.New()
	sh := shipments.New(store.New[models.Shipment](kv, storage.ShipmentsKey), fake.NewSeeded(7))
	ct := contacts.New(store.New[models.Contact](kv, storage.ContactsKey))
	h, err := New(sh, ct).Handler()
	require.NoError(t, err)
	return h, sh, ct
}

func call(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestShipmentsAPI(t *testing.T) {
	h, sh, _ := newAPI(t)

	rec := call(t, h, http.MethodPost, "/api/v1/shipments", map[string]string{"trackingNumber": "1Z999AA10123456784", "carrier": "UPS"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Shipment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "1Z999AA10123456784", created.TrackingNumber)
	require.Contains(t, []int{2, 3, 5}, len(created.Timeline))

	rec = call(t, h, http.MethodPost, "/api/v1/shipments", map[string]string{"trackingNumber": "1Z999AA10123456784", "carrier": "UPS"})
	require.Equal(t, http.StatusConflict, rec.Code)
	var p problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "duplicate", p.Kind)
	require.Equal(t, "This tracking number is already being tracked", p.Error)

	rec = call(t, h, http.MethodPost, "/api/v1/shipments", map[string]string{"trackingNumber": "", "carrier": "UPS"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "validation", p.Kind)
	require.Equal(t, "trackingNumber", p.Field)

	rec = call(t, h, http.MethodGet, "/api/v1/shipments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list shipmentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)

	rec = call(t, h, http.MethodGet, "/api/v1/shipments/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, h, http.MethodGet, "/api/v1/shipments/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, h, http.MethodDelete, "/api/v1/shipments/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"removed":true}`, rec.Body.String())
	require.Empty(t, sh.List())

	rec = call(t, h, http.MethodDelete, "/api/v1/shipments/"+created.ID, nil)
	require.JSONEq(t, `{"removed":false}`, rec.Body.String())
}

func TestShipmentsAPI_BadJSON(t *testing.T) {
	h, _, _ := newAPI(t)
	rec := call(t, h, http.MethodPost, "/api/v1/shipments", "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodPost, "/api/v1/shipments", `{"trackingNumber":"A","carrier":"UPS","extra":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactsAPI(t *testing.T) {
	h, _, ct := newAPI(t)
	_, err := ct.SubmitContact(context.Background(), models.ContactCreateInput{Name: "John Smith", Phone: "5559876543"})
	require.NoError(t, err)

	rec := call(t, h, http.MethodPost, "/api/v1/contacts", map[string]string{"name": "Jane Doe", "phone": "15551234567", "category": "family"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var jane models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jane))
	require.Equal(t, "+1 (555) 123-4567", jane.Phone)

	rec = call(t, h, http.MethodPost, "/api/v1/contacts", map[string]string{"name": "X", "phone": "555-12"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/v1/contacts?q=jan&category=all", nil)
	var list contactsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 2, list.Count)
	require.Equal(t, 1, list.Shown)
	require.Equal(t, "Jane Doe", list.Contacts[0].Name)

	rec = call(t, h, http.MethodPost, "/api/v1/contacts/"+jane.ID+"/call", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"called":true,"tel":"tel:15551234567"}`, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/api/v1/contacts/missing/call", nil)
	require.JSONEq(t, `{"called":false}`, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/api/v1/contacts/"+jane.ID, nil)
	var got models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 1, got.CallCount)
	require.NotNil(t, got.LastContacted)

	rec = call(t, h, http.MethodDelete, "/api/v1/contacts/"+jane.ID, nil)
	require.JSONEq(t, `{"removed":true}`, rec.Body.String())
	require.Len(t, ct.List(), 1)

	rec = call(t, h, http.MethodGet, "/api/v1/categories", nil)
	require.JSONEq(t, `{"categories":["all","family","friends","work","business","other"]}`, rec.Body.String())
}

func TestSwaggerJSONIsValid(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(SwaggerJSON, &doc))
	require.Equal(t, "2.0", doc["swagger"])
}
