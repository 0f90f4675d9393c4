package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	RootPath   = "/"
	HealthPath = "/health"

	contentTypeJSON = "application/json"
)

// ServiceInfo is the immutable identity the handler reports on the root route.
type ServiceInfo struct {
	Name string
}

type identityResponse struct {
	Service string `json:"service"`
	OK      bool   `json:"ok"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServiceHandler answers the fixed routing table of the service. It holds no
// mutable state and is safe for concurrent use.
type ServiceHandler struct {
	info ServiceInfo
}

func NewServiceHandler(info ServiceInfo) *ServiceHandler {
	return &ServiceHandler{info: info}
}

func (h *ServiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeResponse(w, http.StatusNotImplemented, errorResponse{Error: "method not supported"})
		return
	}

	switch RequestTarget(r) {
	case RootPath:
		writeResponse(w, http.StatusOK, identityResponse{Service: h.info.Name, OK: true})
	case HealthPath:
		writeResponse(w, http.StatusOK, healthResponse{Status: "healthy"})
	default:
		writeResponse(w, http.StatusNotFound, errorResponse{Error: "not found"})
	}
}

// RequestTarget returns the raw request target as sent on the request line,
// query string and percent-encoding included. Routes match it exactly.
func RequestTarget(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}

// RouteFor maps a request target onto a bounded route label.
func RouteFor(target string) string {
	switch target {
	case RootPath, HealthPath:
		return target
	default:
		return "other"
	}
}

// writeResponse serializes payload and writes it with an exact Content-Length.
// Raw byte slices are written unmodified.
func writeResponse(w http.ResponseWriter, status int, payload any) {
	body, err := encode(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func encode(payload any) ([]byte, error) {
	if raw, ok := payload.([]byte); ok {
		return raw, nil
	}
	return json.Marshal(payload)
}
