package medecin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/isi/clinic/internal/platform/apperr"
	"github.com/isi/clinic/internal/platform/i18n"
	"github.com/isi/clinic/internal/platform/validation"
)

type mockRepo struct {
	medecins map[int64]*Medecin
	nextID   int64
}

func (m *mockRepo) Create(_ context.Context, md *Medecin) error {
	m.nextID++
	md.ID = m.nextID
	stored := *md
	m.medecins[md.ID] = &stored
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Medecin, bool, error) {
	md, ok := m.medecins[id]
	if !ok {
		return nil, false, nil
	}
	cp := *md
	return &cp, true, nil
}

func (m *mockRepo) List(_ context.Context, specialite string, limit, offset int) ([]*Medecin, int, error) {
	var out []*Medecin
	for _, md := range m.medecins {
		if specialite == "" || strings.Contains(strings.ToLower(md.Specialite), strings.ToLower(specialite)) {
			out = append(out, md)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, md *Medecin) error {
	stored := *md
	m.medecins[md.ID] = &stored
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	delete(m.medecins, id)
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	catalog, err := i18n.NewCatalog("fr")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	v, err := validation.New(catalog)
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	return NewService(&mockRepo{medecins: make(map[int64]*Medecin)}, v, catalog)
}

func sampleRequest() *MedecinRequest {
	return &MedecinRequest{
		Nom:         "Diop",
		Prenom:      "Cheikh",
		Specialite:  "Chirugie Orthopédique",
		Telephone:   "77 654 32 10",
		Email:       "cheikh.diop@hopital.sn",
		LieuTravail: "Pavillon Traumatologie, Hôpital Fann",
	}
}

func TestService_CreateAndGet(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != *created {
		t.Errorf("expected %+v, got %+v", created, got)
	}
	if got.LieuTravail != "Pavillon Traumatologie, Hôpital Fann" {
		t.Errorf("unexpected lieuTravail %q", got.LieuTravail)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService(t)
	req := sampleRequest()
	req.Specialite = ""
	req.LieuTravail = " "

	_, err := svc.Create(i18n.WithLocale(context.Background(), "en"), req)

	var invalid *apperr.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if invalid.Fields["specialite"] != "Specialty is required" {
		t.Errorf("unexpected specialite message %q", invalid.Fields["specialite"])
	}
	if invalid.Fields["lieuTravail"] != "Work location is required" {
		t.Errorf("unexpected lieuTravail message %q", invalid.Fields["lieuTravail"])
	}
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByID(context.Background(), 8)

	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Message != "Le médecin avec l'identifiant 8 est introuvable" {
		t.Errorf("unexpected message %q", nf.Message)
	}
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	created, _ := svc.Create(context.Background(), sampleRequest())

	req := sampleRequest()
	req.Specialite = "Dermatologie"
	updated, err := svc.Update(context.Background(), created.ID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Specialite != "Dermatologie" || updated.ID != created.ID {
		t.Errorf("unexpected update result %+v", updated)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Update(context.Background(), created.ID, sampleRequest()); !isNotFound(err) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}

func TestService_List_FiltersBySpecialite(t *testing.T) {
	svc := newTestService(t)
	svc.Create(context.Background(), sampleRequest())
	derm := sampleRequest()
	derm.Specialite = "Dermatologie"
	svc.Create(context.Background(), derm)

	items, total, err := svc.List(context.Background(), "derma", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Specialite != "Dermatologie" {
		t.Errorf("unexpected result %d %+v", total, items)
	}
}

func TestHandler_Get(t *testing.T) {
	h := NewHandler(newTestService(t))
	h.svc.Create(context.Background(), sampleRequest())
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["lieuTravail"] != "Pavillon Traumatologie, Hôpital Fann" || resp["id"] != float64(1) {
		t.Errorf("unexpected body %v", resp)
	}
}

func TestHandler_Create_InvalidBody(t *testing.T) {
	h := NewHandler(newTestService(t))
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nom":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := h.Create(c); apperr.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Delete_NotFound(t *testing.T) {
	h := NewHandler(newTestService(t))
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := h.Delete(c); apperr.StatusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func isNotFound(err error) bool {
	var nf *apperr.NotFoundError
	return errors.As(err, &nf)
}
