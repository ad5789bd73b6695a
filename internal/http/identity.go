package httpapi

import (
	"errors"
	"net/http"

	"campana-api/internal/domain"
	"campana-api/internal/repository"
)

// userIDHeader carries the identity-provider user id. The auth proxy in
// front of this service validates the token and injects the header; an
// absent or unknown id is rejected here.
const userIDHeader = "X-User-Id"

// Identity resolves the calling Perfil from the request. Shared by every
// handler through embedding.
type Identity struct {
	perfiles repository.PerfilesRepository
}

func NewIdentity(perfiles repository.PerfilesRepository) *Identity {
	return &Identity{perfiles: perfiles}
}

// perfil resolves the caller or writes a 401 and returns false.
func (i *Identity) perfil(w http.ResponseWriter, r *http.Request) (*domain.Perfil, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, Fail("missing user identity"))
		return nil, false
	}
	p, err := i.perfiles.GetPerfil(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusUnauthorized, Fail("unknown user"))
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, Fail("failed to resolve user"))
		return nil, false
	}
	return p, true
}

// admin resolves the caller and additionally requires the Admin rol.
func (i *Identity) admin(w http.ResponseWriter, r *http.Request) (*domain.Perfil, bool) {
	p, ok := i.perfil(w, r)
	if !ok {
		return nil, false
	}
	if !p.IsAdmin() {
		writeJSON(w, http.StatusForbidden, Fail("requiere rol Admin"))
		return nil, false
	}
	return p, true
}
