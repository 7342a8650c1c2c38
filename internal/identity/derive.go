package identity

import (
	"strings"

	"go.uber.org/zap"

	"github.com/gearstock/console/internal/errs"
	"github.com/gearstock/console/internal/model"
)

// Source names the branch of the login response that produced the user.
type Source string

const (
	SourceUsuario   Source = "usuario"
	SourceUser      Source = "user"
	SourceClaims    Source = "claims"
	SourceSynthetic Source = "synthetic"
)

// DeriveUser recovers a normalized user from a login response. Precedence:
// the `usuario` field, then `user`, then the bearer token's claims, then a
// synthetic student built from the submitted email. Claim decode failures
// are logged and fall through to the next tier. The one hard requirement is
// a token in the response and a non-empty email at the end.
func DeriveUser(resp model.LoginResponse, submittedEmail string, log *zap.Logger) (model.User, Source, error) {
	if resp.Token == "" {
		return model.User{}, "", errs.ErrNoToken
	}

	var (
		user model.User
		src  Source
	)
	switch {
	case resp.Usuario != nil:
		user, src = fromWire(*resp.Usuario, submittedEmail), SourceUsuario
	case resp.User != nil:
		user, src = fromWire(*resp.User, submittedEmail), SourceUser
	default:
		claims, err := DecodeClaims(resp.Token)
		if err != nil {
			log.Warn("token claims undecodable, falling back to synthetic user", zap.Error(err))
			user, src = synthetic(submittedEmail), SourceSynthetic
			break
		}
		user = model.User{
			ID:    firstInt(claims, idClaims),
			Name:  firstString(claims, nameClaims),
			Email: firstString(claims, mailClaims),
			Role:  model.NormalizeRole(firstString(claims, roleClaims)),
		}
		if user.Name == "" {
			user.Name = localPart(submittedEmail)
		}
		if user.Email == "" {
			user.Email = submittedEmail
		}
		src = SourceClaims
	}

	if user.Email == "" {
		return model.User{}, src, errs.ErrNoEmail
	}
	if user.ID == 0 {
		log.Warn("login produced a degraded identity",
			zap.String("source", string(src)),
			zap.String("email", user.Email))
	}
	return user, src, nil
}

func fromWire(w model.WireUser, submittedEmail string) model.User {
	u := model.User{
		ID:    w.ID,
		Name:  w.Name,
		Email: w.Email,
		Role:  model.NormalizeRole(w.Role),
	}
	if u.Name == "" {
		u.Name = localPart(submittedEmail)
	}
	if u.Email == "" {
		u.Email = submittedEmail
	}
	return u
}

func synthetic(email string) model.User {
	return model.User{
		ID:    0,
		Name:  localPart(email),
		Email: email,
		Role:  model.RoleStudent,
	}
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
