package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// IdentityDirectory is the external lookup capability for participants.
// A lookup either finds an identity or reports a clean miss; the bool
// forces callers to handle the unresolved case explicitly.
type IdentityDirectory interface {
	FindIdentity(ctx context.Context, token string) (Identity, bool, error)
}

// Resolver maps free-text participant tokens to directory identities.
type Resolver struct {
	dir    IdentityDirectory
	logger *slog.Logger
}

func NewResolver(dir IdentityDirectory, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{dir: dir, logger: logger}
}

// Resolve builds the participant set for a conversion. The principal always
// leads the result even when not mentioned among the tokens, duplicate
// matches collapse by ID, and tokens the directory cannot match are recorded
// as unresolved rather than failing the call. Directory errors propagate.
func (r *Resolver) Resolve(ctx context.Context, principal Identity, tokens []string) (ParticipantSet, error) {
	set := ParticipantSet{Members: []Identity{principal}}
	seen := map[int64]bool{principal.ID: true}

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		identity, ok, err := r.dir.FindIdentity(ctx, token)
		if err != nil {
			return ParticipantSet{}, fmt.Errorf("find identity %q: %w", token, err)
		}
		if !ok {
			r.logger.Warn("participant not resolved, splitting among the rest", "token", token)
			set.Unresolved = append(set.Unresolved, token)
			continue
		}
		if seen[identity.ID] {
			continue
		}
		seen[identity.ID] = true
		set.Members = append(set.Members, identity)
	}

	return set, nil
}

// DeterminePayer picks the payer from the already-resolved participant set.
// The token is matched case-insensitively against each member's email, first
// name, last name, or full name; the first match wins. An empty or unmatched
// token falls back to the principal, so the payer is always a member of the
// split and no second directory lookup ever happens here.
func DeterminePayer(payerToken string, set ParticipantSet, principal Identity) Identity {
	token := strings.TrimSpace(payerToken)
	if token == "" {
		return principal
	}
	for _, m := range set.Members {
		if strings.EqualFold(m.Email, token) ||
			strings.EqualFold(m.FirstName, token) ||
			strings.EqualFold(m.LastName, token) ||
			strings.EqualFold(m.FullName(), token) {
			return m
		}
	}
	return principal
}
