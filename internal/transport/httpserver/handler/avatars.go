package handler

import (
	"errors"
	"io"
	"net/http"

	"staff-console-go/internal/domain/avatars"
	"staff-console-go/internal/domain/validation"
	"staff-console-go/internal/notify"
)

const (
	msgAvatarUploaded = "Profile image successfully uploaded."
	msgAvatarFailed   = "Oops! Something went wrong."

	// multipartOverhead leaves room for boundaries and part headers on top
	// of the largest accepted image.
	multipartOverhead = 64 << 10
)

type avatarResponse struct {
	URL string `json:"url"`
}

// UploadAvatar stores the image in the multipart field "avatar" and returns
// its public URL. The record form submits that URL later.
func (h *Handlers) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, avatars.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(avatars.MaxFileSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeValidationError(w, validation.Errors{avatars.Field: avatars.ErrFileTooLarge.Error()})
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, err := readAvatarFile(r)
	if err != nil {
		if errors.Is(err, avatars.ErrNoFile) {
			writeValidationError(w, validation.Errors{avatars.Field: err.Error()})
			return
		}
		h.logger(r).InternalError("avatars.upload: read file failed", err)
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid file")
		return
	}

	url, err := h.Avatars.Upload(r.Context(), file)
	if err != nil {
		if avatars.IsFieldError(err) {
			h.logger(r).BusinessError("avatars.upload: rejected", err, "name", file.Name)
			writeValidationError(w, validation.Errors{avatars.Field: err.Error()})
			return
		}
		h.notifyFailure(r, avatarsEntity, notify.ActionUploaded, 0, msgAvatarFailed)
		h.logger(r).InternalError("avatars.upload: storage failed", err, "name", file.Name)
		writeError(w, http.StatusBadGateway, "storage_error", msgAvatarFailed)
		return
	}

	h.emit(r, notify.Event{Kind: notify.KindSuccess, Entity: avatarsEntity, Action: notify.ActionUploaded, Message: msgAvatarUploaded})
	writeJSON(w, http.StatusCreated, avatarResponse{URL: url})
}

func readAvatarFile(r *http.Request) (*avatars.File, error) {
	part, header, err := r.FormFile(avatars.Field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, avatars.ErrNoFile
		}
		return nil, err
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return nil, err
	}
	return &avatars.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
