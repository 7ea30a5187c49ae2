package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-dashboard/internal/cache"
	"github.com/weiawesome/wes-dashboard/internal/config"
	"github.com/weiawesome/wes-dashboard/internal/domain"
	"github.com/weiawesome/wes-dashboard/internal/index"
	"github.com/weiawesome/wes-dashboard/internal/naming"
	"github.com/weiawesome/wes-dashboard/internal/repository"
	"github.com/weiawesome/wes-dashboard/internal/service"
	"github.com/weiawesome/wes-dashboard/pkg/database"
	"github.com/weiawesome/wes-dashboard/pkg/response"
	"github.com/weiawesome/wes-dashboard/pkg/storage"
)

type failingSearch struct{ err error }

func (f failingSearch) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	return nil, f.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()

	db, err := database.New(&database.Config{
		Driver:   "sqlite",
		FilePath: filepath.Join(dir, "dashboard.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db, &domain.ItemModel{}))

	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	rc := cache.NewRedisResultCache(context.Background(), config.RedisConfig{Host: host, Port: p}, 100*time.Millisecond)
	t.Cleanup(func() { _ = rc.Close() })

	images, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: dir})
	require.NoError(t, err)

	store := index.NewMemoryStore(10)
	items := service.NewItemService(
		repository.NewGormItemRepository(db),
		store,
		images,
		naming.UUIDGenerator{},
		"uploads",
		service.LoadLocation("Asia/Seoul"),
	)
	search := service.NewSearchService(store, rc, "search", 15*time.Second)

	r := gin.New()
	NewHandler(items, search, images, "uploads").RegisterRoutes(r)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postItem(t *testing.T, r http.Handler, fields map[string]string, fileName string, fileData []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, fileName, fileData)
	req := httptest.NewRequest(http.MethodPost, "/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateThenSearch(t *testing.T) {
	r := newRouter(t)

	rec := postItem(t, r, map[string]string{"title": "pytest", "description": "demo"}, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created domain.ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Positive(t, created.ID)
	assert.Equal(t, "pytest", created.Title)
	require.NotNil(t, created.Description)
	assert.Equal(t, "demo", *created.Description)
	assert.Nil(t, created.ImagePath)
	ts, err := time.Parse(time.RFC3339Nano, created.CreatedAt)
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, 9*60*60, offset)

	rec = get(r, "/search?q=pytest")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result domain.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	ids := make([]int64, 0, len(result.Results))
	for _, hit := range result.Results {
		ids = append(ids, hit.ID)
	}
	assert.Contains(t, ids, created.ID)
}

func TestSearch_EmptyResultsIsArray(t *testing.T) {
	r := newRouter(t)

	rec := get(r, "/search?q="+url.QueryEscape("no such thing"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestSearch_MissingQuery(t *testing.T) {
	r := newRouter(t)

	rec := get(r, "/search")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Detail)
}

func TestSearch_EmptyQueryIsValid(t *testing.T) {
	r := newRouter(t)

	rec := postItem(t, r, map[string]string{"title": "anything"}, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = get(r, "/search?q=")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result domain.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Results)
	assert.Len(t, result.Results, 1)
}

func TestSearch_IndexFailure(t *testing.T) {
	r := gin.New()
	NewHandler(nil, failingSearch{err: errors.New("index unreachable")}, nil, "uploads").RegisterRoutes(r)

	rec := get(r, "/search?q=x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"index unreachable"}`, rec.Body.String())
}

func TestCreateItem_Validation(t *testing.T) {
	r := newRouter(t)

	rec := postItem(t, r, map[string]string{"description": "no title"}, "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postItem(t, r, map[string]string{"title": ""}, "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postItem(t, r, map[string]string{"title": strings.Repeat("x", 256)}, "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = get(r, "/search?q=title")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestCreateItem_URLEncoded(t *testing.T) {
	r := newRouter(t)

	form := url.Values{"title": {"plain form"}}
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"description":null`)
}

func TestCreateItem_WithImageIsServed(t *testing.T) {
	r := newRouter(t)

	data := []byte("\x89PNG\r\n\x1a\nfake")
	rec := postItem(t, r, map[string]string{"title": "photo"}, "shot.png", data)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created domain.ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.ImagePath)
	assert.True(t, strings.HasPrefix(*created.ImagePath, "uploads/"))
	assert.True(t, strings.HasSuffix(*created.ImagePath, ".png"))

	rec = get(r, "/"+*created.ImagePath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, data, body)
}

func TestServeImage_NotFound(t *testing.T) {
	r := newRouter(t)

	rec := get(r, "/uploads/missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	r := newRouter(t)

	rec := get(r, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
