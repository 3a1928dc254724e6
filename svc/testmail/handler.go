package testmail

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mailprobe/core/logger"
	"github.com/dmitrymomot/mailprobe/core/response"
	"github.com/dmitrymomot/mailprobe/pkg/policy"
)

const (
	// DefaultMaxUploadBytes bounds the whole multipart form of a run request.
	DefaultMaxUploadBytes int64 = 20 << 20

	// PolicyFormField is the multipart field carrying policy documents.
	PolicyFormField = "policies"
)

// SkippedDocument is an uploaded policy file left out of the prompt.
type SkippedDocument struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// RunResponse is the body of a successful POST /runs.
type RunResponse struct {
	*Report
	Skipped []SkippedDocument `json:"skipped,omitempty"`
}

// LocalesResponse is the body of GET /locales.
type LocalesResponse struct {
	Default string       `json:"default"`
	Locales []LocaleInfo `json:"locales"`
}

// Handler exposes the service over HTTP.
type Handler struct {
	svc        *Service
	logger     *slog.Logger
	maxUpload  int64
	maxDocSize int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the logger.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMaxUploadBytes bounds the parsed multipart form.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// WithMaxDocumentBytes bounds a single uploaded policy document.
func WithMaxDocumentBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxDocSize = n
		}
	}
}

// NewHandler creates a Handler for svc.
func NewHandler(svc *Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:        svc,
		logger:     logger.Nop(),
		maxUpload:  DefaultMaxUploadBytes,
		maxDocSize: policy.DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the handler's endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/locales", h.listLocales)
	r.Post("/runs", h.createRun)
}

func (h *Handler) listLocales(w http.ResponseWriter, _ *http.Request) {
	reg := h.svc.Registry()
	_ = response.JSON(w, http.StatusOK, LocalesResponse{
		Default: reg.Default().Name,
		Locales: reg.Locales(),
	})
}

func (h *Handler) createRun(w http.ResponseWriter, r *http.Request) {
	req, skipped, err := h.parseRunRequest(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "rejected run request",
			logger.Component("testmail.http"),
			logger.Error(err),
		)
		_ = response.Error(w, err)
		return
	}

	// A started run always finishes, even if the client goes away.
	report, err := h.svc.Run(context.WithoutCancel(r.Context()), req, nil)
	if err != nil {
		_ = response.Error(w, httpError(err))
		return
	}

	_ = response.JSON(w, http.StatusOK, RunResponse{Report: report, Skipped: skipped})
}

// parseRunRequest reads the form fields and uploaded policies. Returned
// errors are response.HTTPError values.
func (h *Handler) parseRunRequest(w http.ResponseWriter, r *http.Request) (GenerationRequest, []SkippedDocument, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(h.maxUpload)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return GenerationRequest{}, nil, response.ErrRequestEntityTooLarge
		}
		return GenerationRequest{}, nil, response.ErrBadRequest.WithMessage("malformed form body")
	}

	req := GenerationRequest{
		StoreName:   r.FormValue("store_name"),
		Recipient:   r.FormValue("recipient"),
		OrderNumber: r.FormValue("order_number"),
		Locale:      r.FormValue("locale"),
	}
	if raw := strings.TrimSpace(r.FormValue("num_emails")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return GenerationRequest{}, nil, httpError(&RequestError{
				Fields: []FieldError{{Field: "num_emails", Rule: "numeric"}},
			})
		}
		req.NumEmails = n
	}

	var (
		docs    []policy.Document
		skipped []SkippedDocument
	)
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File[PolicyFormField] {
			f, err := fh.Open()
			if err != nil {
				return GenerationRequest{}, nil, response.ErrBadRequest.WithMessage("cannot open uploaded file")
			}
			doc, err := policy.FromReader(fh.Filename, f, h.maxDocSize)
			_ = f.Close()
			switch {
			case policy.IsSkippable(err):
				skipped = append(skipped, SkippedDocument{Name: fh.Filename, Reason: err.Error()})
			case err != nil:
				return GenerationRequest{}, nil, response.ErrBadRequest.WithMessage("cannot read uploaded file")
			default:
				docs = append(docs, doc)
			}
		}
	}
	req.PolicyText = policy.Join(docs)

	return req, skipped, nil
}

// httpError maps a run failure to its HTTP representation. Model output is
// attached for parse failures so the caller can see what came back.
func httpError(err error) response.HTTPError {
	kind := Kind(err)
	var herr response.HTTPError
	switch kind {
	case KindInvalidRequest:
		herr = response.ErrUnprocessableEntity.WithMessage("invalid run request")
		var re *RequestError
		if errors.As(err, &re) {
			herr = herr.WithDetail("fields", re.Fields)
		}
	case KindBusy:
		herr = response.ErrConflict.WithMessage("another run is in progress")
	case KindGeneration:
		herr = response.ErrBadGateway.WithMessage("text generation failed")
	case KindJSONParse, KindStructure, KindEmptyBatch:
		herr = response.ErrBadGateway.WithMessage(err.Error())
		var ee *EmptyBatchError
		if errors.As(err, &ee) {
			herr = herr.WithDetail("warnings", ee.Warnings)
		}
	case KindCanceled:
		herr = response.ErrServiceUnavailable.WithMessage("run canceled")
	case KindFormatting, KindConfiguration:
		herr = response.ErrInternalServerError.WithMessage(err.Error())
	default:
		return response.ErrInternalServerError
	}
	herr = herr.WithCode(kind)
	if raw, ok := RawResponse(err); ok {
		herr = herr.WithDetail("response", raw)
	}
	return herr
}
