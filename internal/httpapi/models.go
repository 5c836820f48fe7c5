package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mlxd/pkg/types"
)

// handleListModels serves GET /v1/models in the OpenAI list format.
//
// @Summary      List resident models
// @Produce      json
// @Success      200 {object} types.ModelList
// @Router       /v1/models [get]
func handleListModels(svc Service, w http.ResponseWriter) {
	resident := svc.List()
	data := make([]types.ModelInfo, 0, len(resident))
	now := time.Now().Unix()
	for _, m := range resident {
		data = append(data, types.ModelInfo{
			ID:      m.ID,
			Object:  "model",
			Created: now,
			OwnedBy: "system",
			Kind:    m.Kind,
		})
	}
	writeJSON(w, types.ModelList{Object: "list", Data: data})
}

// handleAddModel serves POST /v1/models: explicit preload of an id+kind pair.
// The model name may come from the model_name query parameter or a JSON body.
//
// @Summary      Load a model
// @Accept       json
// @Produce      json
// @Param        request body types.LoadModelRequest false "Model to load"
// @Success      200 {object} types.LoadModelResponse
// @Failure      404 {object} types.ErrorResponse
// @Failure      507 {object} types.ErrorResponse
// @Router       /v1/models [post]
func handleAddModel(svc Service, w http.ResponseWriter, r *http.Request) {
	var req types.LoadModelRequest
	if name := r.URL.Query().Get("model_name"); name != "" {
		req.ModelName = name
		req.Kind = types.ModelKind(r.URL.Query().Get("kind"))
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, kindValidation, "invalid JSON body")
			return
		}
	}
	if strings.TrimSpace(req.ModelName) == "" {
		writeJSONError(w, http.StatusBadRequest, kindValidation, "model_name is required")
		return
	}
	if req.Kind == "" {
		req.Kind = types.KindText
	}
	if !req.Kind.Valid() {
		writeJSONError(w, http.StatusBadRequest, kindValidation, "kind must be text or vision")
		return
	}

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if err := svc.Preload(ctx, req.ModelName, req.Kind); err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, types.LoadModelResponse{
		Status:  "success",
		Message: "Model " + req.ModelName + " added successfully",
	})
}

// handleRemoveModel serves DELETE /v1/models: explicit eviction.
//
// @Summary      Evict a model
// @Produce      json
// @Param        model_name query string true "Model id to evict"
// @Success      204
// @Failure      404 {object} types.ErrorResponse
// @Router       /v1/models [delete]
func handleRemoveModel(svc Service, w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("model_name")
	if decoded, err := url.QueryUnescape(name); err == nil {
		name = decoded
	}
	name = strings.Trim(strings.TrimSpace(name), `"`)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, kindValidation, "model_name is required")
		return
	}
	if !svc.Evict(name) {
		writeJSONError(w, http.StatusNotFound, kindModelNotFound, "model '"+name+"' not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSupportedModels serves GET /v1/supported_models: the loader's static
// architecture families, independent of what is resident.
//
// @Summary      List supported model architectures
// @Produce      json
// @Success      200 {object} types.SupportedModels
// @Router       /v1/supported_models [get]
func handleSupportedModels(svc Service, w http.ResponseWriter) {
	var out types.SupportedModels
	out.Vision = []string{}
	out.Text = []string{}
	for _, a := range svc.Architectures() {
		switch a.Kind {
		case types.KindVision:
			out.Vision = append(out.Vision, a.Family)
		default:
			out.Text = append(out.Text, a.Family)
		}
	}
	writeJSON(w, out)
}
