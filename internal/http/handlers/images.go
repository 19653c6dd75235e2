package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"lorastudio/internal/domain"
)

const uploadField = "filename"

// ImageUpload accepts a multipart image and hands it to the controller, which
// uploads it to the remote service.
func (a *App) ImageUpload(w http.ResponseWriter, r *http.Request) {
	if !a.Session.HasAPIKey() {
		a.fail(w, r, fmt.Errorf("%w: please enter your API key first", domain.ErrMissingAPIKey), nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, string(domain.ErrorKindValidation), "image is too large")
			return
		}
		a.error(w, http.StatusBadRequest, string(domain.ErrorKindValidation), "expected multipart form")
		return
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		a.error(w, http.StatusBadRequest, string(domain.ErrorKindValidation), "missing form file \"filename\"")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, string(domain.ErrorKindValidation), "failed to read image")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	snap, err := a.Controller.SelectImage(r.Context(), header.Filename, contentType, data)
	if err != nil {
		a.fail(w, r, err, &snap)
		return
	}
	a.json(w, http.StatusOK, snap)
}

func (a *App) ImageClear(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Controller.ClearImage())
}

// ImagePreview serves the bytes of the image currently selected.
func (a *App) ImagePreview(w http.ResponseWriter, r *http.Request) {
	img, ok := a.Controller.Preview()
	if !ok {
		a.fail(w, r, fmt.Errorf("%w: no image selected", domain.ErrNotFound), nil)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}
