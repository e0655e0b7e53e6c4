package handler

import (
	"net/http"
	"strconv"

	"github.com/planweave/planweave/internal/domain"
)

// GeocodeAddress handles GET /geo/geocode?address=...
func (s *Server) GeocodeAddress(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")

	coords, err := s.geo.Geocode(r.Context(), address)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"address":     address,
		"coordinates": coords,
	})
}

// DriveRoute handles GET /geo/route?fromLng=&fromLat=&toLng=&toLat=
func (s *Server) DriveRoute(w http.ResponseWriter, r *http.Request) {
	from, ok := queryCoords(w, r, "fromLng", "fromLat")
	if !ok {
		return
	}
	to, ok := queryCoords(w, r, "toLng", "toLat")
	if !ok {
		return
	}

	route, err := s.geo.DriveRoute(r.Context(), from, to)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, route)
}

// queryCoords parses a lng/lat query-parameter pair, writing a 400 when
// either value is missing or not a number.
func queryCoords(w http.ResponseWriter, r *http.Request, lngName, latName string) (domain.Coordinates, bool) {
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get(lngName), 64)
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get(latName), 64)
	if errLng != nil || errLat != nil {
		writeError(w, http.StatusBadRequest, "validation_error", lngName+" and "+latName+" must be numbers")
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lng: lng, Lat: lat}, true
}
