package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"mediacms/internal/common"
	"mediacms/internal/dbmysql"
)

// HTTPServer is the thin transport over the ingestion pipeline. It only
// translates requests into UploadInput and pipeline errors into statuses.
type HTTPServer struct {
	service IngestionService
	refs    dbmysql.MediaRefRepository
	root    string
	router  *mux.Router
}

func NewHTTPServer(service IngestionService, refs dbmysql.MediaRefRepository, mediaRoot string) *HTTPServer {
	s := &HTTPServer{
		service: service,
		refs:    refs,
		root:    mediaRoot,
	}

	router := mux.NewRouter()
	router.HandleFunc("/media/avatar", s.uploadAvatar).Methods("POST")
	router.HandleFunc("/media/remote-video", s.uploadRemoteVideo).Methods("POST")
	router.HandleFunc("/media/{kind}", s.uploadMedia).Methods("POST")
	router.HandleFunc("/media/{kind}/{hash}", s.checkExists).Methods("HEAD", "GET")
	router.HandleFunc("/refs", s.attachRef).Methods("POST")
	router.HandleFunc("/refs", s.detachRef).Methods("DELETE")
	router.PathPrefix("/files/").HandlerFunc(s.serveFile).Methods("GET")
	router.HandleFunc("/health", s.health).Methods("GET")
	s.router = router

	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) uploadMedia(w http.ResponseWriter, r *http.Request) {
	kind := common.MediaKind(mux.Vars(r)["kind"])
	if !kind.IsValid() || kind == common.MediaKindRemoteVideo {
		http.Error(w, "unsupported media kind", http.StatusBadRequest)
		return
	}

	input, err := s.readUploadInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.service.Save(r.Context(), kind, *input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

// checkExists lets clients probe by content hash before uploading a payload.
func (s *HTTPServer) checkExists(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := common.MediaKind(vars["kind"])
	if !kind.IsValid() {
		http.Error(w, "unsupported media kind", http.StatusBadRequest)
		return
	}

	exists, err := s.service.Exists(r.Context(), kind, vars["hash"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	input, err := s.readUploadInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	url, err := s.service.SaveAvatar(r.Context(), *input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (s *HTTPServer) uploadRemoteVideo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	result, err := s.service.SaveRemoteVideo(r.Context(), body.URL)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

// attachRef registers an entry -> asset reference so unreferenced assets can
// be swept later. This sits outside the ingestion pipeline on purpose.
func (s *HTTPServer) attachRef(w http.ResponseWriter, r *http.Request) {
	if s.refs == nil {
		http.Error(w, "media references disabled", http.StatusServiceUnavailable)
		return
	}
	var body struct {
		AssetHash  string `json:"asset_hash"`
		EntryID    string `json:"entry_id"`
		Collection string `json:"collection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AssetHash == "" || body.EntryID == "" {
		http.Error(w, "asset_hash and entry_id are required", http.StatusBadRequest)
		return
	}
	if err := s.refs.Attach(r.Context(), body.AssetHash, body.EntryID, body.Collection); err != nil {
		http.Error(w, "failed to attach reference", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) detachRef(w http.ResponseWriter, r *http.Request) {
	if s.refs == nil {
		http.Error(w, "media references disabled", http.StatusServiceUnavailable)
		return
	}
	assetHash := r.URL.Query().Get("asset_hash")
	entryID := r.URL.Query().Get("entry_id")
	if assetHash == "" || entryID == "" {
		http.Error(w, "asset_hash and entry_id are required", http.StatusBadRequest)
		return
	}
	if err := s.refs.Detach(r.Context(), assetHash, entryID); err != nil {
		http.Error(w, "failed to detach reference", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/files/")
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.root, clean))
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("✅ Media server is healthy"))
}

func (s *HTTPServer) readUploadInput(r *http.Request) (*UploadInput, error) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file field is required: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = common.MimeFromExtension(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	}

	strategy := StorageStrategy(r.FormValue("strategy"))
	if strategy == "" {
		strategy = StrategyGlobal
	}

	return &UploadInput{
		FileName:   header.Filename,
		MimeType:   mimeType,
		Data:       data,
		Collection: r.FormValue("collection"),
		Strategy:   strategy,
	}, nil
}

func (s *HTTPServer) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedKind):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAdapterNotInitialized):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Printf("ingestion failed: %v", err)
		http.Error(w, "media ingestion failed", http.StatusInternalServerError)
	}
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
