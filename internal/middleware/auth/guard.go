package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobboard/internal/apperrors"
	"github.com/jobdeck/jobboard/internal/logging"
	"github.com/jobdeck/jobboard/internal/mail"
	"github.com/jobdeck/jobboard/internal/models"
	"github.com/jobdeck/jobboard/internal/token"
)

const (
	userContextKey   = "current_user"
	claimsContextKey = "token_claims"
)

type UserResolver interface {
	GetByUID(ctx context.Context, uid uuid.UUID) (*models.User, error)
}

type VerificationStore interface {
	Save(ctx context.Context, email, token string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// Guard layers the per-request checks every protected route goes through:
// bearer extraction, decode, revocation lookup, user resolution, then the
// optional role and verification gates.
type Guard struct {
	Tokens        *token.Service
	Users         UserResolver
	Verifications VerificationStore
	Mail          mail.Publisher
	Domain        string
}

func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}

func CurrentClaims(c echo.Context) *token.Claims {
	if cl, ok := c.Get(claimsContextKey).(*token.Claims); ok {
		return cl
	}
	return nil
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (g *Guard) authenticate(c echo.Context, wantRefresh bool) error {
	ctx := c.Request().Context()

	missingErr := apperrors.ErrAccessTokenRequired
	if wantRefresh {
		missingErr = apperrors.ErrRefreshTokenRequired
	}

	raw := bearerToken(c)
	if raw == "" {
		return missingErr
	}

	claims, err := g.Tokens.Decode(raw)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if claims.Refresh != wantRefresh {
		return missingErr
	}

	revoked, err := g.Tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		// logged-out semantics, distinct from signature expiry
		return apperrors.ErrTokenExpired
	}

	uid, err := uuid.Parse(claims.User.UserUID)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	user, err := g.Users.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	c.Set(userContextKey, user)
	c.Set(claimsContextKey, claims)
	return nil
}

func (g *Guard) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := g.authenticate(c, false); err != nil {
			return err
		}
		return next(c)
	}
}

func (g *Guard) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := g.authenticate(c, true); err != nil {
			return err
		}
		return next(c)
	}
}

// RequireRoles is exact set membership over ADMIN/USER/EMPLOYER, no
// hierarchy.
func (g *Guard) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperrors.ErrAccessTokenRequired
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return apperrors.ErrUnauthorizedRole
		}
	}
}

// RequireVerified gates endpoints that need a verified account. Unverified
// users get the debounced verification-email flow: while a token is pending
// no new email goes out.
func (g *Guard) RequireVerified(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return apperrors.ErrAccessTokenRequired
		}
		if user.IsVerified {
			return next(c)
		}
		return g.handleNotVerified(c, user)
	}
}

func (g *Guard) handleNotVerified(c echo.Context, user *models.User) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("middleware", "verification_gate", "email", user.Email)

	existing, err := g.Verifications.Get(ctx, user.Email)
	if err != nil {
		return err
	}

	if existing != "" {
		// a link is already pending, do not resend
		return &apperrors.NotVerified{User: user}
	}

	verifyToken, err := g.Tokens.IssueVerification(user.Email)
	if err != nil {
		return err
	}
	if err := g.Verifications.Save(ctx, user.Email, verifyToken, token.VerificationTTL); err != nil {
		return err
	}

	msg := mail.VerificationMessage(g.Domain, user.Email, verifyToken)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := g.Mail.Publish(sendCtx, msg); err != nil {
			l.Error("verification_email_dispatch_failed", "error", err)
		}
	}()

	l.Info("verification_email_queued")
	return &apperrors.NotVerified{User: user, Resent: true}
}
