package httpserver

import "net/http"

// Routes aggregates the handlers for both frontends.
type Routes struct {
	Health http.HandlerFunc

	UserLogin             http.HandlerFunc
	VerifyPlate           http.HandlerFunc
	UserSessions          http.HandlerFunc
	UserReservationsList  http.HandlerFunc
	UserReservationCreate http.HandlerFunc

	AdminLogin             http.HandlerFunc
	AdminSessions          http.HandlerFunc
	AdminReservationCreate http.HandlerFunc
	AdminReservationDelete http.HandlerFunc
}

// Guards protect role-scoped route groups.
type Guards struct {
	CORS  func(http.Handler) http.Handler
	User  func(http.Handler) http.Handler
	Admin func(http.Handler) http.Handler
}

// NewRouter wires all HTTP routes.
func NewRouter(routes Routes, guards Guards) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", method(http.MethodGet, routes.Health))

	mux.Handle("/api/user/login", method(http.MethodPost, routes.UserLogin))
	mux.Handle("/api/user/verify-plate", wrap(guards.User, method(http.MethodPost, routes.VerifyPlate)))
	mux.Handle("/api/user/sessions", method(http.MethodGet, routes.UserSessions))
	mux.Handle("/api/user/reservations", wrap(guards.User, byMethod(map[string]http.HandlerFunc{
		http.MethodGet:  routes.UserReservationsList,
		http.MethodPost: routes.UserReservationCreate,
	})))

	mux.Handle("/api/admin/login", method(http.MethodPost, routes.AdminLogin))
	mux.Handle("/api/admin/sessions", wrap(guards.Admin, method(http.MethodGet, routes.AdminSessions)))
	mux.Handle("/api/admin/reservations", wrap(guards.Admin, method(http.MethodPost, routes.AdminReservationCreate)))
	mux.Handle("/api/admin/reservations/", wrap(guards.Admin, method(http.MethodDelete, routes.AdminReservationDelete)))

	var handler http.Handler = mux
	if guards.CORS != nil {
		handler = guards.CORS(handler)
	}
	return handler
}

func wrap(guard func(http.Handler) http.Handler, handler http.Handler) http.Handler {
	if guard == nil {
		return handler
	}
	return guard(handler)
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return byMethod(map[string]http.HandlerFunc{expected: handler})
}

func byMethod(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok && handler != nil {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
