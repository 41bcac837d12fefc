package http

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/ddc-crew/tournament-planner/internal/auth"
	"github.com/ddc-crew/tournament-planner/internal/config"
	"github.com/ddc-crew/tournament-planner/internal/credentials"
	"github.com/ddc-crew/tournament-planner/internal/httputil"
	"github.com/ddc-crew/tournament-planner/internal/logging"
	"github.com/ddc-crew/tournament-planner/internal/session"
)

// AccountDirectory resolves an authenticated user id to its account record,
// for pages that display the username.
type AccountDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*credentials.Record, error)
}

var homePage = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Tournament Planner</title>
</head>
<body>
    <h1>Tournament Planner</h1>
    <p><a href="/login">Login</a></p>
</body>
</html>
`))

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Dashboard</title>
</head>
<body>
    <p>Welcome {{.Username}}!</p>
    <p>Available actions:</p>
    <ol>
        <li><a href="/restricted/password">Change password</a></li>
        <li>
            <form name="logoutForm" action="/restricted/logout" method="post">
                <input type="submit" value="Logout">
            </form>
        </li>
    </ol>
</body>
</html>
`))

// NewRouter wires the route table: public home/health/login, and the
// restricted group behind the identity-extraction middleware.
func NewRouter(cfg *config.Config, authHandler *auth.Handler, sessions *session.Manager, accounts AccountDirectory, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/", handleHome)
	r.Get("/health", handleHealth)

	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)

	r.Route("/restricted", func(r chi.Router) {
		r.Use(session.RequireUser(sessions))
		r.Get("/dashboard", handleDashboard(accounts))
		r.Get("/password", authHandler.PasswordForm)
		r.Post("/password", authHandler.ChangePassword)
		r.Post("/logout", authHandler.LogOut)
	})

	return r
}

func handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homePage.Execute(w, nil); err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("render home page", "error", err.Error())
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func handleDashboard(accounts AccountDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		userID, ok := session.UserIDFromContext(r.Context())
		if !ok {
			httputil.SeeOther(w, r, "/login")
			return
		}

		rec, err := accounts.GetByID(r.Context(), userID)
		if err != nil {
			logger.Error("dashboard account lookup failed", "error", err.Error())
			http.Error(w, "something went wrong", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := struct{ Username string }{Username: rec.Username}
		if err := dashboardPage.Execute(w, data); err != nil {
			logger.Error("render dashboard page", "error", err.Error())
		}
	}
}
