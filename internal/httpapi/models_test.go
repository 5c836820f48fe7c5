package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mlxd/pkg/types"
)

func TestModelLifecycle(t *testing.T) {
	mux, _ := newTestMux(&fakeLoader{frags: []string{"x"}}, 0)

	// Load via query parameters.
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/models?model_name=m1&kind=text", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("add: %d %s", w.Code, w.Body.String())
	}
	var lr types.LoadModelResponse
	if err := json.Unmarshal(w.Body.Bytes(), &lr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lr.Status != "success" || !strings.Contains(lr.Message, "m1") {
		t.Fatalf("load response: %+v", lr)
	}

	// The model shows up in the OpenAI-format list.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var list types.ModelList
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Object != "list" || len(list.Data) != 1 {
		t.Fatalf("list: %+v", list)
	}
	if m := list.Data[0]; m.ID != "m1" || m.Object != "model" || m.Kind != types.KindText {
		t.Fatalf("entry: %+v", m)
	}

	// Evict, then the list is empty and a second evict is a 404.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/models?model_name=m1", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/models?model_name=m1", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", w.Code)
	}
	if er := decodeError(t, w); er.Kind != "model_not_found" {
		t.Fatalf("kind = %q", er.Kind)
	}
}

func TestAddModelJSONBody(t *testing.T) {
	mux, reg := newTestMux(&fakeLoader{frags: []string{"x"}}, 0)

	body := `{"model_name":"m2","kind":"vision"}`
	r := httptest.NewRequest(http.MethodPost, "/v1/models", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("add: %d %s", w.Code, w.Body.String())
	}
	list := reg.List()
	if len(list) != 1 || list[0].Kind != types.KindVision {
		t.Fatalf("resident: %+v", list)
	}
}

func TestAddModelValidation(t *testing.T) {
	mux, _ := newTestMux(&fakeLoader{}, 0)

	r := httptest.NewRequest(http.MethodPost, "/v1/models", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing name: %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/models?model_name=m&kind=audio", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad kind: %d", w.Code)
	}
}

func TestRemoveModelUnescapesAndTrims(t *testing.T) {
	mux, reg := newTestMux(&fakeLoader{frags: []string{"x"}}, 0)
	id := "org/model-4bit"
	if err := reg.Preload(context.Background(), id, types.KindText); err != nil {
		t.Fatalf("preload: %v", err)
	}

	// Clients pass quoted and URL-escaped ids; both are normalized away.
	q := url.QueryEscape(`"` + id + `"`)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/models?model_name="+q, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	if len(reg.List()) != 0 {
		t.Fatalf("model still resident")
	}
}

func TestRemoveModelMissingName(t *testing.T) {
	mux, _ := newTestMux(&fakeLoader{}, 0)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/models", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSupportedModels(t *testing.T) {
	mux, _ := newTestMux(&fakeLoader{}, 0)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/supported_models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var sm types.SupportedModels
	if err := json.Unmarshal(w.Body.Bytes(), &sm); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sm.Text) != 1 || sm.Text[0] != "llama" {
		t.Fatalf("lm = %+v", sm.Text)
	}
	if len(sm.Vision) != 1 || sm.Vision[0] != "llava" {
		t.Fatalf("vlm = %+v", sm.Vision)
	}
}
