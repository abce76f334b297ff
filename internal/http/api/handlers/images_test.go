package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brightfold/landing-api/internal/models"
	"github.com/brightfold/landing-api/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type uploadFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func buildUploadRequest(t *testing.T, fields map[string]string, files []uploadFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if errField := writer.WriteField(key, value); errField != nil {
			t.Fatalf("write field %s: %v", key, errField)
		}
	}
	for _, file := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		header.Set("Content-Type", file.contentType)
		part, errPart := writer.CreatePart(header)
		if errPart != nil {
			t.Fatalf("create part: %v", errPart)
		}
		if _, errWrite := part.Write(file.data); errWrite != nil {
			t.Fatalf("write part: %v", errWrite)
		}
	}
	if errClose := writer.Close(); errClose != nil {
		t.Fatalf("close writer: %v", errClose)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/images/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newImageRouter(t *testing.T, db *gorm.DB) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	store := storage.NewLocalStore(dir, "/uploads", 5<<20)
	handler := NewImageHandler(db, store, 10)
	landingHandler := NewLandingHandler(db)
	router := gin.New()
	router.POST("/api/admin/images/upload", handler.Upload)
	router.GET("/api/admin/images", handler.List)
	router.DELETE("/api/admin/images/:id", handler.Delete)
	router.GET("/api/landing/images/:section_key", landingHandler.ListImages)
	return router, dir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, errRead := os.ReadDir(dir)
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return 0
		}
		t.Fatalf("read dir: %v", errRead)
	}
	return len(entries)
}

func TestUploadSingleImage(t *testing.T) {
	db := setupHandlersDB(t)
	router, dir := newImageRouter(t, db)

	req := buildUploadRequest(t,
		map[string]string{"section_key": "gallery", "alt_text": "a sunset"},
		[]uploadFile{{"image", "sunset.png", "image/png", []byte("png-bytes")}},
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w.Body.Bytes())
	var record struct {
		ID         uint64 `json:"id"`
		SectionKey string `json:"section_key"`
		ImageURL   string `json:"image_url"`
		AltText    string `json:"alt_text"`
	}
	if errDecode := json.Unmarshal(env.Data, &record); errDecode != nil {
		t.Fatalf("decode record: %v", errDecode)
	}
	if record.SectionKey != "gallery" || record.AltText != "a sunset" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if !strings.HasPrefix(record.ImageURL, "/uploads/") || filepath.Ext(record.ImageURL) != ".png" {
		t.Fatalf("unexpected image url: %s", record.ImageURL)
	}
	if countFiles(t, dir) != 1 {
		t.Fatal("expected exactly one stored file")
	}
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	db := setupHandlersDB(t)
	router, dir := newImageRouter(t, db)

	req := buildUploadRequest(t,
		map[string]string{"section_key": "gallery"},
		[]uploadFile{{"image", "notes.txt", "text/plain", []byte("not an image")}},
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var count int64
	if errCount := db.Model(&models.LandingImage{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count images: %v", errCount)
	}
	if count != 0 {
		t.Fatal("rejected upload must create no database row")
	}
	if countFiles(t, dir) != 0 {
		t.Fatal("rejected upload must write no file")
	}
}

func TestUploadRequiresSectionKey(t *testing.T) {
	db := setupHandlersDB(t)
	router, _ := newImageRouter(t, db)

	req := buildUploadRequest(t, nil,
		[]uploadFile{{"image", "sunset.png", "image/png", []byte("data")}},
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestUploadWithoutFileRejected(t *testing.T) {
	db := setupHandlersDB(t)
	router, _ := newImageRouter(t, db)

	req := buildUploadRequest(t, map[string]string{"section_key": "gallery"}, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	env := decodeEnvelope(t, w.Body.Bytes())
	if env.Message != "No image file provided" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestUploadBatchPreservesOrder(t *testing.T) {
	db := setupHandlersDB(t)
	router, dir := newImageRouter(t, db)

	req := buildUploadRequest(t,
		map[string]string{"section_key": "gallery"},
		[]uploadFile{
			{"images", "first.png", "image/png", []byte("one")},
			{"images", "second.jpg", "image/jpeg", []byte("two")},
			{"images", "third.webp", "image/webp", []byte("three")},
		},
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w.Body.Bytes())
	var records []struct {
		ImageURL string          `json:"image_url"`
		Meta     json.RawMessage `json:"meta"`
	}
	if errDecode := json.Unmarshal(env.Data, &records); errDecode != nil {
		t.Fatalf("decode records: %v", errDecode)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	seen := map[string]bool{}
	for _, record := range records {
		if seen[record.ImageURL] {
			t.Fatalf("duplicate generated name %s", record.ImageURL)
		}
		seen[record.ImageURL] = true
	}
	wantExts := []string{".png", ".jpg", ".webp"}
	for i, record := range records {
		if filepath.Ext(record.ImageURL) != wantExts[i] {
			t.Fatalf("record %d: submission order not preserved: %+v", i, records)
		}
	}
	if countFiles(t, dir) != 3 {
		t.Fatal("expected three stored files")
	}
}

func TestUploadBatchWithOneBadFileFailsWholesale(t *testing.T) {
	db := setupHandlersDB(t)
	router, dir := newImageRouter(t, db)

	req := buildUploadRequest(t,
		map[string]string{"section_key": "gallery"},
		[]uploadFile{
			{"images", "ok.png", "image/png", []byte("fine")},
			{"images", "bad.exe", "application/octet-stream", []byte("nope")},
		},
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var count int64
	if errCount := db.Model(&models.LandingImage{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count images: %v", errCount)
	}
	if count != 0 || countFiles(t, dir) != 0 {
		t.Fatal("failed batch must leave no partial state")
	}
}

func TestUploadBatchOverLimitRejected(t *testing.T) {
	db := setupHandlersDB(t)
	gin.SetMode(gin.TestMode)
	store := storage.NewLocalStore(t.TempDir(), "/uploads", 5<<20)
	handler := NewImageHandler(db, store, 2)
	router := gin.New()
	router.POST("/api/admin/images/upload", handler.Upload)

	req := buildUploadRequest(t,
		map[string]string{"section_key": "gallery"},
		[]uploadFile{
			{"images", "a.png", "image/png", []byte("a")},
			{"images", "b.png", "image/png", []byte("b")},
			{"images", "c.png", "image/png", []byte("c")},
		},
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestDeleteImageRemovesRowAndFile(t *testing.T) {
	db := setupHandlersDB(t)
	router, dir := newImageRouter(t, db)

	req := buildUploadRequest(t,
		map[string]string{"section_key": "gallery"},
		[]uploadFile{{"image", "gone.png", "image/png", []byte("bye")}},
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected status 200, got %d", w.Code)
	}

	var row models.LandingImage
	if errFind := db.First(&row).Error; errFind != nil {
		t.Fatalf("find image: %v", errFind)
	}

	deleteReq := httptest.NewRequest(http.MethodDelete, "/api/admin/images/1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, deleteReq)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	if errCount := db.Model(&models.LandingImage{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count images: %v", errCount)
	}
	if count != 0 {
		t.Fatal("image row should be deleted")
	}
	if countFiles(t, dir) != 0 {
		t.Fatal("backing file should be deleted")
	}
}

func TestDeleteImageToleratesMissingFile(t *testing.T) {
	db := setupHandlersDB(t)
	router, _ := newImageRouter(t, db)

	row := models.LandingImage{SectionKey: "gallery", ImageURL: "/uploads/manually-removed.png"}
	if errSeed := db.Create(&row).Error; errSeed != nil {
		t.Fatalf("seed image: %v", errSeed)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/images/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestDeleteUnknownImageIsNotFound(t *testing.T) {
	db := setupHandlersDB(t)
	router, _ := newImageRouter(t, db)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/images/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestPublicImagesFilteredBySectionMostRecentFirst(t *testing.T) {
	db := setupHandlersDB(t)
	router, _ := newImageRouter(t, db)

	rows := []models.LandingImage{
		{SectionKey: "gallery", ImageURL: "/uploads/old.png"},
		{SectionKey: "gallery", ImageURL: "/uploads/new.png"},
		{SectionKey: "hero", ImageURL: "/uploads/other.png"},
	}
	for i := range rows {
		if errSeed := db.Create(&rows[i]).Error; errSeed != nil {
			t.Fatalf("seed image: %v", errSeed)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/landing/images/gallery", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	env := decodeEnvelope(t, w.Body.Bytes())
	var out []struct {
		ImageURL string `json:"image_url"`
	}
	if errDecode := json.Unmarshal(env.Data, &out); errDecode != nil {
		t.Fatalf("decode images: %v", errDecode)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 gallery images, got %d", len(out))
	}
	if out[0].ImageURL != "/uploads/new.png" || out[1].ImageURL != "/uploads/old.png" {
		t.Fatalf("expected most recent first, got %+v", out)
	}

	// Unknown section yields an empty list, never an error.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/landing/images/nope", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	env = decodeEnvelope(t, w.Body.Bytes())
	if errDecode := json.Unmarshal(env.Data, &out); errDecode != nil {
		t.Fatalf("decode images: %v", errDecode)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %+v", out)
	}
}
