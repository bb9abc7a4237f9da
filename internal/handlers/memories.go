package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/mediastore"
	"github.com/mdulin/tandem/internal/models"
	"github.com/mdulin/tandem/internal/roles"
)

const maxUploadBytes = 32 << 20

type MemoryHandler struct {
	store      *docstore.Store
	uploader   mediastore.Uploader
	principals *PrincipalResolver
}

func NewMemoryHandler(store *docstore.Store, uploader mediastore.Uploader, principals *PrincipalResolver) *MemoryHandler {
	return &MemoryHandler{store: store, uploader: uploader, principals: principals}
}

type ListMemoriesRequest struct {
	auth.AuthInput
}

type ListMemoriesResponse struct {
	Body struct {
		Memories []models.Memory `json:"memories"`
	}
}

func (h *MemoryHandler) HandleList(ctx context.Context, input *ListMemoriesRequest) (*ListMemoriesResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner && principal.Role.Level != roles.Companion {
		return nil, huma.Error403Forbidden("Memories are not visible to guests")
	}

	var doc models.TripsDoc
	if err := h.store.Get(ctx, docstore.KeyTrips, &doc); err != nil {
		return nil, huma.Error500InternalServerError("Failed to load memories: " + err.Error())
	}

	res := &ListMemoriesResponse{}
	res.Body.Memories = doc.Memories
	return res, nil
}

type CreateMemoryRequest struct {
	auth.AuthInput
	Body struct {
		Title   string `json:"title" required:"true"`
		Date    string `json:"date" required:"true"`
		Caption string `json:"caption,omitempty"`
	}
}

type MemoryResponse struct {
	Body models.Memory
}

func (h *MemoryHandler) HandleCreate(ctx context.Context, input *CreateMemoryRequest) (*MemoryResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can record memories")
	}

	memory := models.Memory{
		ID:      uuid.NewString(),
		Title:   input.Body.Title,
		Date:    input.Body.Date,
		Caption: input.Body.Caption,
	}

	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		doc.Memories = append(doc.Memories, memory)
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}

	return &MemoryResponse{Body: memory}, nil
}

// HandleUploadPhoto is a plain chi handler (multipart doesn't go through
// huma). It sits behind AuthMiddleware; the owner check happens here.
func (h *MemoryHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	principal, err := h.principals.Resolve(r.Context(), r.Header.Get("Cookie"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if principal.Role.Level != roles.Owner {
		http.Error(w, "Only owners can upload photos", http.StatusForbidden)
		return
	}
	if h.uploader == nil {
		http.Error(w, "Media storage not configured", http.StatusServiceUnavailable)
		return
	}

	memoryID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Missing photo field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := h.uploader.Upload(r.Context(), mediastore.PrefixMemories, header.Filename, file)
	if err != nil {
		http.Error(w, "Upload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	err = h.store.Update(r.Context(), docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		for i := range doc.Memories {
			if doc.Memories[i].ID == memoryID {
				doc.Memories[i].PhotoPaths = append(doc.Memories[i].PhotoPaths, path)
				return &doc, nil
			}
		}
		return nil, huma.Error404NotFound("Memory not found")
	})
	if err != nil {
		if _, ok := err.(huma.StatusError); ok {
			http.Error(w, "Memory not found", http.StatusNotFound)
		} else {
			http.Error(w, "Failed to save photo reference", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"path": path,
		"url":  h.uploader.DownloadURL(path),
	})
}
