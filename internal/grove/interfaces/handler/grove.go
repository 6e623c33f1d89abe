// Package handler adapts the grove action surface to its transports. Each
// transport only extracts (credential, action name, payload) and renders
// the Reply; authentication, decoding and error mapping live here.
package handler

import (
	"context"

	"go.uber.org/zap"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/identity"
	"GroveWorld/internal/grove/service"
	"GroveWorld/internal/shared/session"
	"GroveWorld/internal/shared/transport"
	"GroveWorld/modules/kit/logx"
)

// Runner executes one action for a player; the actor runtime and the
// coordinator both satisfy it.
type Runner interface {
	Do(ctx context.Context, pid entity.PlayerID, a service.Action) (any, error)
}

type Options struct {
	Runner   Runner
	Identity identity.Provider
	// Tokens enables development logins when set.
	Tokens  *identity.Tokens
	Session session.Manager
	Logger  logx.Logger
}

type Grove struct {
	runner   Runner
	identity identity.Provider
	tokens   *identity.Tokens
	session  session.Manager
	log      logx.Logger
}

func NewGrove(o Options) *Grove {
	if o.Logger == nil {
		o.Logger = logx.Nop()
	}
	return &Grove{
		runner:   o.Runner,
		identity: o.Identity,
		tokens:   o.Tokens,
		session:  o.Session,
		log:      o.Logger,
	}
}

// Reply is the transport-neutral answer to one request.
type Reply struct {
	Code int
	Msg  string
	Data any
}

func (g *Grove) Session() session.Manager {
	return g.session
}

// Authenticate resolves the credential to an identity.
func (g *Grove) Authenticate(ctx context.Context, credential string) (identity.Identity, error) {
	if g.identity == nil {
		return identity.Identity{}, identity.ErrNoIdentity
	}
	return g.identity.CurrentUser(ctx, credential)
}

// Handle authenticates the credential and runs the action. Recent chat is
// readable without a user.
func (g *Grove) Handle(ctx context.Context, credential, name string, payload any) Reply {
	if name == service.ActionChatRecent {
		return g.Run(ctx, identity.Identity{}, name, payload)
	}
	ident, err := g.Authenticate(ctx, credential)
	if err != nil {
		return g.fail(ctx, err)
	}
	return g.Run(ctx, ident, name, payload)
}

// Run executes the named action as ident.
func (g *Grove) Run(ctx context.Context, ident identity.Identity, name string, payload any) Reply {
	a, err := service.DecodeAction(name, payload)
	if err != nil {
		return g.fail(ctx, err)
	}
	if in, ok := a.(service.Init); ok {
		// The username always comes from the identity, never the payload.
		in.Username = ident.Username
		a = in
	}

	res, err := g.runner.Do(ctx, ident.PlayerID, a)
	if err != nil {
		return g.fail(ctx, err)
	}

	if o, ok := res.(interface{ Status() service.Outcome }); ok {
		out := o.Status()
		if !out.Success {
			transport.SetErrorReason(ctx, out.Reason)
			return Reply{Code: transport.Rejected, Msg: out.Message, Data: res}
		}
	}
	return Reply{Code: transport.OK, Data: res}
}

// IssueToken signs a development token for username.
func (g *Grove) IssueToken(ctx context.Context, username string) Reply {
	if g.tokens == nil {
		return Reply{Code: transport.NotFound, Msg: "development login disabled"}
	}
	token, ident, err := g.tokens.Issue(username)
	if err != nil {
		g.log.WithContext(ctx).Warn("issue token failed", zap.String("username", username), zap.Error(err))
		return g.fail(ctx, identity.ErrInvalidUsername)
	}
	return Reply{Code: transport.OK, Data: map[string]string{
		"token":    token,
		"playerId": string(ident.PlayerID),
		"username": ident.Username,
	}}
}

func (g *Grove) fail(ctx context.Context, err error) Reply {
	code, msg := HandleError(ctx, err)
	return Reply{Code: code, Msg: msg}
}
