package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kennethlove/practice-pycon/internal/delivery/http/controllers"
	"github.com/kennethlove/practice-pycon/internal/delivery/http/middleware"
	"github.com/kennethlove/practice-pycon/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	authController *controllers.AuthController,
	listController *controllers.TalkListController,
	talkController *controllers.TalkController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup/{$}", authController.SignUp)
	mux.HandleFunc("POST /auth/login/{$}", authController.Login)

	// Lists
	mux.HandleFunc("GET /lists/{$}", auth(listController.List))
	mux.HandleFunc("POST /lists/create/{$}", auth(listController.Create))
	mux.HandleFunc("GET /lists/d/{slug}/{$}", auth(listController.Detail))
	mux.HandleFunc("POST /lists/d/{slug}/{$}", auth(listController.AddTalk))
	mux.HandleFunc("DELETE /lists/d/{slug}/{$}", auth(listController.Delete))
	mux.HandleFunc("GET /lists/s/{slug}/{$}", auth(listController.Schedule))
	mux.HandleFunc("POST /lists/update/{slug}/{$}", auth(listController.Update))
	mux.HandleFunc("POST /lists/remove/{listID}/{talkID}/{$}", auth(listController.RemoveTalk))

	// Talks
	mux.HandleFunc("GET /talks/d/{slug}/{$}", auth(talkController.Detail))
	mux.HandleFunc("POST /talks/d/{slug}/{$}", auth(talkController.Review))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
