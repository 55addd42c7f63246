package handler

import (
	"io"
	"net/http"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// User (profile) Handlers
// ============================================================

// avatar uploads are capped at 5 MiB
const maxAvatarSize = 5 << 20

func getMeHandler(svc *service.UserService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /users/me")
		defer span.End()

		user, err := svc.EnsureUser(ctx, IdentityFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func updateMeHandler(svc *service.UserService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /users/me")
		defer span.End()

		var req domain.UpdateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		user, err := svc.UpdateUser(ctx, IdentityFromContext(ctx), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func uploadAvatarHandler(svc *service.UserService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /users/me/avatar")
		defer span.End()

		if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "file", Message: "invalid multipart form"}, logger)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "file", Message: "file field is required"}, logger)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		user, err := svc.SetAvatar(ctx, IdentityFromContext(ctx), contentType, data)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
