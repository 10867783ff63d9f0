package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// BusinessPageUUID is the identifier of a business's permanent profile page.
// A business can only ever own one, so inserting a second row collides on
// the primary key.
func BusinessPageUUID(businessID uuid.UUID) uuid.UUID {
	return UUID("go-aipages:business_page:" + businessID.String())
}

// PageUUID derives a stable page id from its batch and position so that a
// retried publish maps drafts onto the rows it already created.
func PageUUID(batchID uuid.UUID, index int, path string) uuid.UUID {
	return UUID("go-aipages:page:" + batchID.String() + ":" + strings.ToLower(strings.TrimSpace(path)) + ":" + strconv.Itoa(index))
}
