package api

import (
	"encoding/json"
	"net/http"

	"github.com/hallgen/hallgen/pkg/buildinfo"
	"github.com/hallgen/hallgen/pkg/cache"
	"github.com/hallgen/hallgen/pkg/errors"
	"github.com/hallgen/hallgen/pkg/layout"
	"github.com/hallgen/hallgen/pkg/observability"
	"github.com/hallgen/hallgen/pkg/pipeline"
	"github.com/hallgen/hallgen/pkg/render/site"
)

// planRequest is the body of POST /v1/plan and /v1/render.
type planRequest struct {
	Config layout.Config `json:"config"`
	Seed   uint64        `json:"seed,omitempty"`

	// Render-only options.
	Scale    float64 `json:"scale,omitempty"`
	WithRoof *bool   `json:"with_roof,omitempty"`
}

// planResponse is the body of a successful POST /v1/plan.
type planResponse struct {
	Plan   *pipeline.Plan `json:"plan"`
	Cached bool           `json:"cached"`
}

// errorResponse is the body of any failed request.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	planBytes, cached, err := s.compilePlan(r, req)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	var plan pipeline.Plan
	if err := json.Unmarshal(planBytes, &plan); err != nil {
		s.writeError(w, r, http.StatusInternalServerError,
			errors.Wrap(errors.ErrCodeInternal, err, "decode cached plan"))
		return
	}
	writeJSON(w, http.StatusOK, planResponse{Plan: &plan, Cached: cached})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	planBytes, _, err := s.compilePlan(r, req)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	keyOpts := cache.ArtifactKeyOpts{Format: "svg", Scale: req.Scale}
	artifactKey := s.keyer.ArtifactKey(cache.Hash(planBytes), keyOpts)

	if data, hit, err := s.cache.Get(r.Context(), artifactKey); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "artifact")
		writeSVG(w, data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "artifact")

	var plan pipeline.Plan
	if err := json.Unmarshal(planBytes, &plan); err != nil {
		s.writeError(w, r, http.StatusInternalServerError,
			errors.Wrap(errors.ErrCodeInternal, err, "decode cached plan"))
		return
	}

	var opts []site.SVGOption
	if req.Scale > 0 {
		opts = append(opts, site.WithScale(req.Scale))
	}
	if req.WithRoof != nil && !*req.WithRoof {
		opts = append(opts, site.WithoutRoof())
	}
	svg := site.RenderSVG(&plan, opts...)

	s.cacheSet(r, artifactKey, svg, "artifact")
	writeSVG(w, svg)
}

// compilePlan returns the serialized plan for the request, from cache
// when possible. It returns the plan as bytes so callers can hash and
// re-serve it without another marshal round.
func (s *Server) compilePlan(r *http.Request, req planRequest) (data []byte, cached bool, err error) {
	seed := req.Seed
	if seed == 0 {
		seed = pipeline.DefaultSeed
	}
	key := s.keyer.PlanKey(req.Config, seed)

	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "plan")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(r.Context(), "plan")

	plan, err := pipeline.Compile(r.Context(), req.Config, pipeline.Options{
		Seed:   seed,
		Logger: s.logger,
	})
	if err != nil {
		return nil, false, err
	}

	data, err = json.Marshal(plan)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode plan")
	}
	s.cacheSet(r, key, data, "plan")
	return data, false, nil
}

// cacheSet writes through to the cache with retries; failures are logged
// and otherwise ignored since the response is already computed.
func (s *Server) cacheSet(r *http.Request, key string, data []byte, keyType string) {
	err := cache.RetryWithBackoff(r.Context(), func() error {
		if err := s.cache.Set(r.Context(), key, data, s.ttl); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("cache write failed",
			"key_type", keyType,
			"err", err,
			"request_id", requestIDFromContext(r.Context()))
		return
	}
	observability.Cache().OnCacheSet(r.Context(), keyType, len(data))
}

// statusFor maps compilation errors to HTTP status codes: configuration
// mistakes are the client's fault, everything else is ours.
func statusFor(err error) int {
	if errors.IsConfig(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: requestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}
