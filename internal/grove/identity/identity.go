// Package identity answers "who is the current user" for the grove and
// derives the stable player id from the username.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/shared/security"
)

const maxUsernameRunes = 32

var (
	ErrNoIdentity      = errors.New("no current user")
	ErrInvalidUsername = errors.New("invalid username")
)

// Identity is the authenticated user of a request.
type Identity struct {
	Username string
	PlayerID entity.PlayerID
}

// Provider resolves the current user from request credentials.
type Provider interface {
	CurrentUser(ctx context.Context, credential string) (Identity, error)
}

// PlayerIDFor maps a username to its player id: NFC normalised, case
// folded, letters, digits, '-', '_' and '.' only. Usernames that differ only
// in case share a player.
func PlayerIDFor(username string) (entity.PlayerID, error) {
	name := norm.NFC.String(strings.TrimSpace(username))
	if name == "" {
		return "", ErrInvalidUsername
	}
	id := cases.Fold().String(name)
	n := 0
	for _, r := range id {
		n++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '.' {
			return "", ErrInvalidUsername
		}
	}
	if n > maxUsernameRunes {
		return "", ErrInvalidUsername
	}
	return entity.PlayerID(id), nil
}

func New(username string) (Identity, error) {
	id, err := PlayerIDFor(username)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Username: strings.TrimSpace(username), PlayerID: id}, nil
}

// Tokens resolves HS256 bearer tokens and issues them for development logins.
type Tokens struct {
	TTL time.Duration
}

func (t Tokens) CurrentUser(_ context.Context, credential string) (Identity, error) {
	token := strings.TrimSpace(strings.TrimPrefix(credential, "Bearer "))
	if token == "" {
		return Identity{}, ErrNoIdentity
	}
	_, claims, err := security.ParseToken(token)
	if err != nil {
		return Identity{}, errors.Join(ErrNoIdentity, err)
	}
	return New(claims.Username)
}

// Issue signs a token for username after checking it maps to a player id.
func (t Tokens) Issue(username string) (string, Identity, error) {
	ident, err := New(username)
	if err != nil {
		return "", Identity{}, err
	}
	token, err := security.Award(ident.Username, t.TTL)
	if err != nil {
		return "", Identity{}, err
	}
	return token, ident, nil
}

// Static always answers the same user; the credential is ignored.
type Static struct {
	Username string
}

func (s Static) CurrentUser(context.Context, string) (Identity, error) {
	if s.Username == "" {
		return Identity{}, ErrNoIdentity
	}
	return New(s.Username)
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
