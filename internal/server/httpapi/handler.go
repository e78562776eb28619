package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orgvault/orgvault/internal/secret"
	"github.com/orgvault/orgvault/internal/server/secrets"
)

const (
	defaultLimit = 25
	maxLimit     = 100
	maxOffset    = 100
)

// createSecretRequest is the POST body: a name plus the variant envelope.
type createSecretRequest struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// updateSecretRequest is the PATCH body; both fields are optional, data is a
// full replacement variant when present.
type updateSecretRequest struct {
	Name *string         `json:"name"`
	Data json.RawMessage `json:"data"`
}

// secretResponse mirrors the stored record with the payload decrypted back
// into its envelope form.
type secretResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	OrgID     string          `json:"orgId"`
	UserID    string          `json:"userId"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type listSecretsResponse struct {
	Secrets    []secretResponse `json:"secrets"`
	TotalCount int              `json:"totalCount"`
}

func toSecretResponse(r *secrets.Record) (secretResponse, error) {
	data, err := secret.Encode(r.Data)
	if err != nil {
		return secretResponse{}, err
	}
	return secretResponse{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Data.Kind().String(),
		OrgID:     r.OrgID,
		UserID:    r.UserID,
		Data:      data,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// List handles GET /api/v1/user-secrets.
func (s *HTTPServer) List(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(r, "offset", 0, 0, maxOffset)
	if !ok {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "offset must be between 0 and 100")
		return
	}
	limit, ok := queryInt(r, "limit", defaultLimit, 1, maxLimit)
	if !ok {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "limit must be between 1 and 100")
		return
	}

	ctx := r.Context()
	records, total, err := s.secrets.List(ctx, GetOrgID(ctx), GetUserID(ctx), offset, limit)
	if err != nil {
		s.logger.Error(ctx, "list secrets failed", "error", err.Error())
		writeServiceError(w, err)
		return
	}

	resp := listSecretsResponse{Secrets: make([]secretResponse, 0, len(records)), TotalCount: total}
	for _, rec := range records {
		sr, err := toSecretResponse(rec)
		if err != nil {
			s.logger.Error(ctx, "encoding secret failed", "error", err.Error())
			writeServiceError(w, err)
			return
		}
		resp.Secrets = append(resp.Secrets, sr)
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/user-secrets.
func (s *HTTPServer) Create(w http.ResponseWriter, r *http.Request) {
	var req createSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	v, err := secret.Decode(req.Data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ctx := r.Context()
	record, err := s.secrets.Create(ctx, GetOrgID(ctx), GetUserID(ctx), req.Name, v)
	if err != nil {
		s.logger.Error(ctx, "create secret failed", "error", err.Error())
		writeServiceError(w, err)
		return
	}

	sr, err := toSecretResponse(record)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]secretResponse{"secret": sr})
}

// Update handles PATCH /api/v1/user-secrets/{secretID}.
func (s *HTTPServer) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "secretID")
	if _, err := uuid.Parse(id); err != nil {
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, "user secret not found")
		return
	}

	var req updateSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	patch := secrets.UpdatePatch{Name: req.Name}
	if len(req.Data) > 0 {
		v, err := secret.Decode(req.Data)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		patch.Data = v
	}

	ctx := r.Context()
	record, err := s.secrets.Update(ctx, GetOrgID(ctx), GetUserID(ctx), id, patch)
	if err != nil {
		s.logger.Error(ctx, "update secret failed", "id", id, "error", err.Error())
		writeServiceError(w, err)
		return
	}

	sr, err := toSecretResponse(record)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]secretResponse{"secret": sr})
}

// Delete handles DELETE /api/v1/user-secrets/{secretID}. Always succeeds for
// well-formed ids: callers cannot tell whether a row existed.
func (s *HTTPServer) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "secretID")
	ctx := r.Context()

	if _, err := uuid.Parse(id); err == nil {
		if err := s.secrets.Delete(ctx, GetOrgID(ctx), GetUserID(ctx), id); err != nil {
			s.logger.Error(ctx, "delete secret failed", "id", id, "error", err.Error())
			writeServiceError(w, err)
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted user secret"})
}

// queryInt parses an integer query parameter, applying a default when absent
// and enforcing the inclusive bounds.
func queryInt(r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}
