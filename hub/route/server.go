package route

import (
	"net/http"
	"strings"

	"github.com/portseek/portseek/component/ports"
	"github.com/portseek/portseek/log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/gofrs/uuid/v5"
)

var serverSecret = ""

type resolveFunc func(pid int) ([]string, error)

// Start serves the RESTful API at addr until the listener fails.
func Start(addr string, secret string, options ...ports.Option) {
	serverSecret = secret

	resolve := func(pid int) ([]string, error) {
		return ports.ResolvePorts(pid, options...)
	}

	log.Infoln("RESTful API listening at: %s", addr)
	if err := http.ListenAndServe(addr, router(resolve)); err != nil {
		log.Errorln("External controller serve error: %s", err.Error())
	}
}

func router(resolve resolveFunc) *chi.Mux {
	r := chi.NewRouter()

	corsM := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	})
	r.Use(corsM.Handler, traceID)

	r.Group(func(r chi.Router) {
		r.Use(authentication)

		r.Get("/", hello)
		r.Get("/version", version)
		r.Get("/logs", getLogs)
		r.Mount("/ports", portsRouter(resolve))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrNotFound)
	})

	return r
}

func traceID(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if id, err := uuid.NewV4(); err == nil {
			w.Header().Set("X-Trace-Id", id.String())
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func authentication(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if serverSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		hasInvalidHeader := !strings.HasPrefix(header, "Bearer ")
		hasInvalidSecret := strings.TrimPrefix(header, "Bearer ") != serverSecret
		if hasInvalidHeader || hasInvalidSecret {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func hello(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, render.M{"hello": "portseek"})
}
