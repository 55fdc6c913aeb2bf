package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediacms/internal/common"
)

func newUploadRequest(t *testing.T, target, fileName, mimeType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHTTPServer_UploadImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockRecordStore(ctrl)
	svc, root := newTestService(t, store, nil)
	server := NewHTTPServer(svc, nil, root)

	collection := common.MediaKindImage.Collection()
	store.EXPECT().FindByHash(gomock.Any(), collection, gomock.Any()).Return(nil, nil)
	store.EXPECT().Persist(gomock.Any(), collection, gomock.Any()).Return("656f00000000000000000010", nil)

	req := newUploadRequest(t, "/media/image", "photo.png", "image/png", newTestPNG(t, 64, 64))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var result IngestResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "656f00000000000000000010", result.ID)
	require.NotNil(t, result.Asset)
	assert.Equal(t, common.MediaKindImage, result.Asset.Kind)
}

func TestHTTPServer_UploadUnknownKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, root := newTestService(t, NewMockRecordStore(ctrl), nil)
	server := NewHTTPServer(svc, nil, root)

	req := newUploadRequest(t, "/media/hologram", "x.bin", "application/octet-stream", []byte("x"))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPServer_UploadWithoutFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, root := newTestService(t, NewMockRecordStore(ctrl), nil)
	server := NewHTTPServer(svc, nil, root)

	req := httptest.NewRequest(http.MethodPost, "/media/image", bytes.NewBufferString("not multipart"))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPServer_ServeFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockRecordStore(ctrl)
	svc, root := newTestService(t, store, nil)
	server := NewHTTPServer(svc, nil, root)

	// ingest something first so there is a file to serve
	collection := common.MediaKindDocument.Collection()
	store.EXPECT().FindByHash(gomock.Any(), collection, gomock.Any()).Return(nil, nil)
	store.EXPECT().Persist(gomock.Any(), collection, gomock.Any()).Return("656f00000000000000000011", nil)

	result, err := svc.SaveDocument(context.Background(), UploadInput{
		FileName: "notes.txt",
		MimeType: "text/plain",
		Data:     []byte("hello media root"),
		Strategy: StrategyGlobal,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/files"+result.Asset.URL, nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello media root", rec.Body.String())
}

func TestHTTPServer_ServeFile_PathTraversal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, root := newTestService(t, NewMockRecordStore(ctrl), nil)
	server := NewHTTPServer(svc, nil, root)

	req := httptest.NewRequest(http.MethodGet, "/files/", nil)
	req.URL.Path = "/files/../../etc/passwd" // bypass client-side path cleaning
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestHTTPServer_ExistsProbe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockRecordStore(ctrl)
	svc, root := newTestService(t, store, nil)
	server := NewHTTPServer(svc, nil, root)

	collection := common.MediaKindImage.Collection()
	store.EXPECT().Exists(gomock.Any(), collection, "0123456789abcdef0123").Return(true, nil)
	store.EXPECT().Exists(gomock.Any(), collection, "ffffffffffffffffffff").Return(false, nil)

	req := httptest.NewRequest(http.MethodHead, "/media/image/0123456789abcdef0123", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodHead, "/media/image/ffffffffffffffffffff", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPServer_RefsDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, root := newTestService(t, NewMockRecordStore(ctrl), nil)
	server := NewHTTPServer(svc, nil, root)

	req := httptest.NewRequest(http.MethodPost, "/refs",
		bytes.NewBufferString(`{"asset_hash":"abc","entry_id":"post-1"}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHTTPServer_Health(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, root := newTestService(t, NewMockRecordStore(ctrl), nil)
	server := NewHTTPServer(svc, nil, root)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
