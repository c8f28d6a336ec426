package route

import (
	"errors"
	"net/http"
	"runtime"
	"strconv"

	"github.com/portseek/portseek/component/ports"
	C "github.com/portseek/portseek/constant"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/atomic"
)

var (
	resolvedTotal = atomic.NewInt64(0)
	failedTotal   = atomic.NewInt64(0)
)

func portsRouter(resolve resolveFunc) http.Handler {
	r := chi.NewRouter()
	r.Get("/{pid}", getPorts(resolve))
	return r
}

func getPorts(resolve resolveFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := strconv.Atoi(chi.URLParam(r, "pid"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrBadRequest)
			return
		}

		result, err := resolve(pid)
		if err != nil {
			failedTotal.Inc()

			switch {
			case errors.Is(err, ports.ErrInvalidPID):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, newError(err.Error()))
			case errors.Is(err, ports.ErrProcessNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, ErrNotFound)
			case errors.Is(err, ports.ErrAccessDenied):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, ErrForbidden)
			case errors.Is(err, ports.ErrPlatformNotSupport):
				render.Status(r, http.StatusNotImplemented)
				render.JSON(w, r, newError(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, newError(err.Error()))
			}
			return
		}

		resolvedTotal.Inc()
		if result == nil {
			result = []string{}
		}
		render.JSON(w, r, render.M{
			"pid":   pid,
			"ports": result,
		})
	}
}

func version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, render.M{
		"version":  C.Version,
		"platform": C.HostPlatform(),
		"arch":     runtime.GOARCH,
		"resolved": resolvedTotal.Load(),
		"failed":   failedTotal.Load(),
	})
}
