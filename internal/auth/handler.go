package auth

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/ddc-crew/tournament-planner/internal/domain"
	"github.com/ddc-crew/tournament-planner/internal/httputil"
	"github.com/ddc-crew/tournament-planner/internal/logging"
	"github.com/ddc-crew/tournament-planner/internal/session"
)

// User-facing notices carried across redirects.
const (
	flashLoginFailed     = "Failed Login Authentication"
	flashLoggedOut       = "You have successfully logged out."
	flashPasswordChanged = "Your password has been changed."
	flashNewPasswordDiff = "You entered two different new passwords - the field values must match."
	flashWeakPassword    = "The new password should be between 12 and 128 characters long."
	flashWrongCurrent    = "The current password is incorrect."
)

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Login</title>
</head>
<body>
    {{if .Flash}}<p><i>{{.Flash}}</i></p>{{end}}
    <form action="/login" method="post">
        <label>Username
            <input type="text" name="username" placeholder="Enter Username">
        </label>
        <label>Password
            <input type="password" name="password" placeholder="Enter Password">
        </label>
        <button type="submit">Login</button>
    </form>
</body>
</html>
`))

var passwordPage = template.Must(template.New("password").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Change Password</title>
</head>
<body>
    {{if .Flash}}<p><i>{{.Flash}}</i></p>{{end}}
    <form action="/restricted/password" method="post">
        <label>Current password
            <input type="password" name="current_password" placeholder="Enter current password">
        </label>
        <label>New password
            <input type="password" name="new_password" placeholder="Enter new password">
        </label>
        <label>Confirm new password
            <input type="password" name="new_password_check" placeholder="Type the new password again">
        </label>
        <button type="submit">Change password</button>
    </form>
    <p><a href="/restricted/dashboard">&lt;- Back</a></p>
</body>
</html>
`))

// Handler serves the login, logout and password-change routes.
type Handler struct {
	service  *Service
	sessions *session.Manager
}

func NewHandler(service *Service, sessions *session.Manager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

type pageData struct {
	Flash string
}

// LoginForm renders the login page, consuming any pending flash notice.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	data := pageData{Flash: httputil.PopFlash(w, r)}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loginPage.Execute(w, data); err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("render login page", "error", err.Error())
	}
}

// Login validates the submitted credentials. Success rotates the session id,
// stores the identity, and lands on the dashboard; any credential failure
// bounces back to the login page with the same generic notice.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		httputil.SetFlash(w, flashLoginFailed)
		httputil.SeeOther(w, r, "/login")
		return
	}

	username, err := domain.ParseUserName(r.PostFormValue("username"))
	if err != nil {
		// Malformed names cannot belong to an account; fail exactly like a
		// wrong password would.
		httputil.SetFlash(w, flashLoginFailed)
		httputil.SeeOther(w, r, "/login")
		return
	}

	userID, err := h.service.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httputil.SetFlash(w, flashLoginFailed)
			httputil.SeeOther(w, r, "/login")
			return
		}
		logger.Error("login failed unexpectedly", "error", err.Error())
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	sess := h.sessions.Load(r)
	if err := sess.Renew(r.Context(), w); err != nil {
		logger.Error("session renewal failed", "error", err.Error())
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}
	if err := sess.SetUserID(r.Context(), w, userID); err != nil {
		logger.Error("storing session identity failed", "error", err.Error())
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in", "user_id", userID.String())
	httputil.SeeOther(w, r, "/restricted/dashboard")
}

// LogOut purges the server-side session and returns to the login page.
func (h *Handler) LogOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Load(r).LogOut(r.Context(), w); err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("logout failed", "error", err.Error())
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	httputil.SetFlash(w, flashLoggedOut)
	httputil.SeeOther(w, r, "/login")
}

// PasswordForm renders the password-change page.
func (h *Handler) PasswordForm(w http.ResponseWriter, r *http.Request) {
	data := pageData{Flash: httputil.PopFlash(w, r)}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := passwordPage.Execute(w, data); err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("render password page", "error", err.Error())
	}
}

// ChangePassword runs the password-change workflow for the authenticated
// user. Every user-correctable failure redirects back to the form with a
// specific notice; the session stays logged in either way.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		// Route is behind RequireUser; reaching this means a wiring bug.
		httputil.SeeOther(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		httputil.SeeOther(w, r, "/restricted/password")
		return
	}

	err := h.service.ChangePassword(
		r.Context(),
		userID,
		r.PostFormValue("current_password"),
		r.PostFormValue("new_password"),
		r.PostFormValue("new_password_check"),
	)
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		httputil.SetFlash(w, flashNewPasswordDiff)
		httputil.SeeOther(w, r, "/restricted/password")
	case errors.Is(err, ErrWeakPassword):
		httputil.SetFlash(w, flashWeakPassword)
		httputil.SeeOther(w, r, "/restricted/password")
	case errors.Is(err, ErrInvalidCredentials):
		httputil.SetFlash(w, flashWrongCurrent)
		httputil.SeeOther(w, r, "/restricted/password")
	case err != nil:
		logger.Error("password change failed unexpectedly", "error", err.Error())
		http.Error(w, "something went wrong", http.StatusInternalServerError)
	default:
		logger.Info("password changed", "user_id", userID.String())
		httputil.SetFlash(w, flashPasswordChanged)
		httputil.SeeOther(w, r, "/restricted/password")
	}
}
