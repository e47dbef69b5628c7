package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/findora/findora/internal/db"
	"github.com/findora/findora/internal/model"
	"github.com/findora/findora/internal/photos"
	"github.com/findora/findora/internal/store"
)

const testJWTSecret = "test-secret"

type testServer struct {
	*httptest.Server
	token    string
	photoDir string
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	database := db.NewTestDB(t)

	photoDir := t.TempDir()
	if opts.Photos == nil {
		local, err := photos.NewLocal(photoDir, "/uploads")
		if err != nil {
			t.Fatalf("photo store: %v", err)
		}
		opts.Photos = local
	}

	server := httptest.NewServer(NewRouter(database, testJWTSecret, opts))
	t.Cleanup(server.Close)

	// Create admin.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if _, err := store.CreateAdmin(ctx, database, "Admin", "admin@kampus.ac.id", string(hash)); err != nil {
		t.Fatalf("creating admin: %v", err)
	}

	// Get token.
	resp := doJSON(t, http.MethodPost, server.URL+"/api/admin/login", "", map[string]string{
		"email": "admin@kampus.ac.id", "password": "password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
	var loginResp map[string]string
	decode(t, resp, &loginResp)
	if loginResp["token"] == "" {
		t.Fatal("empty token from login")
	}

	return &testServer{Server: server, token: loginResp["token"], photoDir: photoDir}
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func doMultipart(t *testing.T, method, url, token string, fields map[string]string, photo []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if photo != nil {
		part, _ := mw.CreateFormFile("photo", "photo.png")
		part.Write(photo)
	}
	mw.Close()

	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		t.Fatalf("expected %d, got %d (%v)", want, resp.StatusCode, body)
	}
}

func pngPhoto(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func itemFields() map[string]string {
	return map[string]string{
		"name":          "Laptop Asus",
		"category":      "Elektronik",
		"locationFound": "Lab Komputer",
		"foundDate":     "2025-05-01",
	}
}

func TestHealth(t *testing.T) {
	srv := setupTestServer(t, Options{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", nil)
	expectStatus(t, resp, http.StatusOK)
	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestLoginEndpoint(t *testing.T) {
	srv := setupTestServer(t, Options{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/admin/login", "", map[string]string{
		"email": "admin@kampus.ac.id", "password": "wrong",
	})
	expectStatus(t, resp, http.StatusUnauthorized)
	var body map[string]string
	decode(t, resp, &body)
	if body["message"] == "" {
		t.Error("expected error message under \"message\"")
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/admin/login", "", map[string]string{"email": "admin@kampus.ac.id"})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/admin/login", "", map[string]string{
		"email": "nobody@kampus.ac.id", "password": "password",
	})
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestRegister(t *testing.T) {
	srv := setupTestServer(t, Options{AllowRegistration: true})
	url := srv.URL + "/api/admin/register"

	resp := doJSON(t, http.MethodPost, url, "", map[string]string{
		"name": "Staf", "email": "Staf@Kampus.ac.id", "password": "rahasia123",
	})
	expectStatus(t, resp, http.StatusCreated)
	var created struct {
		Message string             `json:"message"`
		Admin   model.AdminSummary `json:"admin"`
	}
	decode(t, resp, &created)
	if created.Admin.ID == 0 || created.Admin.Email != "staf@kampus.ac.id" {
		t.Errorf("unexpected admin %+v", created.Admin)
	}

	resp = doJSON(t, http.MethodPost, url, "", map[string]string{
		"name": "Staf", "email": "staf@kampus.ac.id", "password": "rahasia123",
	})
	expectStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, url, "", map[string]string{
		"name": "Staf", "email": "lain@kampus.ac.id", "password": "pendek",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	var invalid struct {
		Fields []struct{ Field, Message string } `json:"fields"`
	}
	decode(t, resp, &invalid)
	if len(invalid.Fields) != 1 || invalid.Fields[0].Field != "password" {
		t.Errorf("expected password field error, got %+v", invalid.Fields)
	}
}

func TestRegisterDisabled(t *testing.T) {
	srv := setupTestServer(t, Options{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/admin/register", "", map[string]string{
		"name": "Staf", "email": "staf@kampus.ac.id", "password": "rahasia123",
	})
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()
}

func TestFoundItemsAPIFlow(t *testing.T) {
	srv := setupTestServer(t, Options{})
	base := srv.URL + "/api/found-items"

	// Create without photo.
	resp := doMultipart(t, http.MethodPost, base, srv.token, itemFields(), nil)
	expectStatus(t, resp, http.StatusCreated)
	var item model.FoundItem
	decode(t, resp, &item)
	if item.ID == 0 || item.Status != model.ItemStatusFound || item.Verified || item.PhotoURL != "" {
		t.Fatalf("unexpected created item %+v", item)
	}
	if item.AdminID == nil {
		t.Error("expected creating admin to be recorded")
	}
	itemURL := base + "/" + itoa(item.ID)

	// Partial update keeps the other fields.
	resp = doMultipart(t, http.MethodPut, itemURL, srv.token, map[string]string{"status": "Dikembalikan"}, nil)
	expectStatus(t, resp, http.StatusOK)
	var updated model.FoundItem
	decode(t, resp, &updated)
	if updated.Status != model.ItemStatusReturned || updated.Name != "Laptop Asus" || updated.LocationFound != "Lab Komputer" {
		t.Errorf("unexpected updated item %+v", updated)
	}

	// Verify does not touch status.
	resp = doJSON(t, http.MethodPut, itemURL+"/verify", srv.token, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, itemURL, "", nil)
	expectStatus(t, resp, http.StatusOK)
	var got model.FoundItem
	decode(t, resp, &got)
	if !got.Verified || got.Status != model.ItemStatusReturned {
		t.Errorf("unexpected item after verify %+v", got)
	}

	resp = doJSON(t, http.MethodPut, itemURL+"/unverify", srv.token, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// List is public.
	resp = doJSON(t, http.MethodGet, base, "", nil)
	expectStatus(t, resp, http.StatusOK)
	var items []model.FoundItem
	decode(t, resp, &items)
	if len(items) != 1 || items[0].Verified {
		t.Errorf("unexpected list %+v", items)
	}

	// Delete, then everything is 404.
	resp = doJSON(t, http.MethodDelete, itemURL, srv.token, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	for _, tc := range []struct{ method, url string }{
		{http.MethodGet, itemURL},
		{http.MethodDelete, itemURL},
		{http.MethodPut, itemURL + "/verify"},
		{http.MethodPut, itemURL + "/unverify"},
	} {
		resp = doJSON(t, tc.method, tc.url, srv.token, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.url, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp = doMultipart(t, http.MethodPut, itemURL, srv.token, map[string]string{"name": "X"}, nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestFoundItemPhotoUpload(t *testing.T) {
	srv := setupTestServer(t, Options{})

	resp := doMultipart(t, http.MethodPost, srv.URL+"/api/found-items", srv.token, itemFields(), pngPhoto(t, 2000, 1000))
	expectStatus(t, resp, http.StatusCreated)
	var item model.FoundItem
	decode(t, resp, &item)

	if !strings.HasPrefix(item.PhotoURL, "/uploads/") || !strings.HasSuffix(item.PhotoURL, ".jpg") {
		t.Fatalf("unexpected photo url %q", item.PhotoURL)
	}
	stored := filepath.Join(srv.photoDir, strings.TrimPrefix(item.PhotoURL, "/uploads/"))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("expected stored photo: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width != 1280 || cfg.Height != 640 {
		t.Errorf("expected 1280x640 jpeg, got %+v (err %v)", cfg, err)
	}

	// An edit without a photo keeps the old one.
	resp = doMultipart(t, http.MethodPut, srv.URL+"/api/found-items/"+itoa(item.ID), srv.token, map[string]string{"color": "Hitam"}, nil)
	expectStatus(t, resp, http.StatusOK)
	var updated model.FoundItem
	decode(t, resp, &updated)
	if updated.PhotoURL != item.PhotoURL || updated.Color != "Hitam" {
		t.Errorf("unexpected updated item %+v", updated)
	}
}

func TestFoundItemRejectsBadInput(t *testing.T) {
	srv := setupTestServer(t, Options{})
	base := srv.URL + "/api/found-items"

	fields := itemFields()
	delete(fields, "category")
	resp := doMultipart(t, http.MethodPost, base, srv.token, fields, nil)
	expectStatus(t, resp, http.StatusBadRequest)
	var body struct {
		Message string `json:"message"`
		Fields  []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	decode(t, resp, &body)
	if len(body.Fields) != 1 || body.Fields[0].Field != "category" {
		t.Errorf("expected category error, got %+v", body)
	}

	resp = doMultipart(t, http.MethodPost, base, srv.token, itemFields(), []byte("GIF89a not really"))
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = doMultipart(t, http.MethodPost, base, srv.token, map[string]string{
		"name": "X", "category": "Buku", "locationFound": "Aula", "foundDate": "2025-05-01", "status": "Dicuri",
	}, nil)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	srv := setupTestServer(t, Options{})

	resp := doMultipart(t, http.MethodPost, srv.URL+"/api/found-items", "", itemFields(), nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/found-items/1/verify", "not-a-token", nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/found-items", "", nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := setupTestServer(t, Options{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/admin/logout", srv.token, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doMultipart(t, http.MethodPost, srv.URL+"/api/found-items", srv.token, itemFields(), nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	var body map[string]string
	decode(t, resp, &body)
	if body["message"] != "token has been revoked" {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestLostReportsAPIFlow(t *testing.T) {
	srv := setupTestServer(t, Options{})
	base := srv.URL + "/api/lost-reports"

	report := map[string]string{
		"name":        "Budi Santoso",
		"nim":         "2101234",
		"email":       "budi@kampus.ac.id",
		"phone":       "081234567890",
		"category":    "Dokumen",
		"lostDate":    "2025-05-02",
		"description": "KTM hilang di sekitar kantin",
		"status":      "Selesai",
	}
	resp := doJSON(t, http.MethodPost, base, "", report)
	expectStatus(t, resp, http.StatusCreated)
	var created model.LostReport
	decode(t, resp, &created)
	if created.Status != model.ReportStatusLost {
		t.Errorf("expected status forced to Hilang, got %q", created.Status)
	}
	if created.LostDate.String() != "2025-05-02" {
		t.Errorf("unexpected lost date %v", created.LostDate)
	}

	report["phone"] = "0812"
	resp = doJSON(t, http.MethodPost, base, "", report)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	reportURL := base + "/" + itoa(created.ID)
	resp = doJSON(t, http.MethodPut, reportURL, "", map[string]string{"status": "Selesai"})
	expectStatus(t, resp, http.StatusOK)
	var updated model.LostReport
	decode(t, resp, &updated)
	if updated.Status != model.ReportStatusDone || updated.Name != "Budi Santoso" {
		t.Errorf("unexpected updated report %+v", updated)
	}

	resp = doJSON(t, http.MethodPut, reportURL, "", map[string]string{"status": ""})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, base, "", nil)
	expectStatus(t, resp, http.StatusOK)
	var reports []model.LostReport
	decode(t, resp, &reports)
	if len(reports) != 1 {
		t.Errorf("expected 1 report, got %d", len(reports))
	}

	resp = doJSON(t, http.MethodDelete, reportURL, "", nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, reportURL, "", nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, base+"/abc", "", map[string]string{"status": "Selesai"})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestUnknownRoute(t *testing.T) {
	srv := setupTestServer(t, Options{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/items", "", nil)
	expectStatus(t, resp, http.StatusNotFound)
	var body map[string]string
	decode(t, resp, &body)
	if body["message"] == "" {
		t.Error("expected JSON error body")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
