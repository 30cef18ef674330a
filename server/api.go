package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shhhinnovations/cryptokit/encryption"
	apperrors "github.com/shhhinnovations/cryptokit/errors"
	"github.com/shhhinnovations/cryptokit/hmactoken"
	"github.com/shhhinnovations/cryptokit/observability"
	"github.com/shhhinnovations/cryptokit/server/middleware"
	"github.com/shhhinnovations/cryptokit/validation"
)

type encryptRequest struct {
	Salt      string `json:"salt"`
	Plaintext string `json:"plaintext"`
}

type encryptResponse struct {
	Ciphertext string `json:"ciphertext"`
}

type decryptRequest struct {
	Salt       string `json:"salt"`
	Ciphertext string `json:"ciphertext" validate:"required"`
}

type decryptResponse struct {
	Plaintext string `json:"plaintext"`
}

type issueRequest struct {
	Salt       string `json:"salt"`
	Data       string `json:"data"`
	TTLSeconds int64  `json:"ttl_seconds" validate:"gt=0"`
}

type issueResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type verifyRequest struct {
	Salt  string `json:"salt"`
	Data  string `json:"data"`
	Token string `json:"token" validate:"required"`
}

type verifyResponse struct {
	Result string `json:"result"`
}

// API serves the encrypt, decrypt and token routes. Either backend may be
// nil, in which case its routes are not registered.
type API struct {
	crypto      encryption.Cryptographer
	tokens      *hmactoken.Service
	maxTTL      time.Duration
	verifyLimit int
}

const defaultMaxTokenTTL = 30 * 24 * time.Hour

// NewAPI creates the route handlers.
func NewAPI(crypto encryption.Cryptographer, tokens *hmactoken.Service, cfg Config) *API {
	if cfg.MaxTokenTTL <= 0 {
		cfg.MaxTokenTTL = defaultMaxTokenTTL
	}
	return &API{
		crypto:      crypto,
		tokens:      tokens,
		maxTTL:      cfg.MaxTokenTTL,
		verifyLimit: cfg.VerifyRateLimit,
	}
}

// Register mounts the routes under r.
func (a *API) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	if a.crypto != nil {
		v1.POST("/encrypt", a.encrypt)
		v1.POST("/decrypt", a.decrypt)
	}
	if a.tokens != nil {
		v1.POST("/tokens", a.issue)
		v1.POST("/tokens/verify",
			middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: a.verifyLimit}),
			a.verify)
	}
}

func (a *API) encrypt(c *gin.Context) {
	var req encryptRequest
	if !bind(c, &req) {
		return
	}
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanEncrypt)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrAlgorithm, encryption.Name(a.crypto))

	ct, err := a.crypto.Encrypt(req.Salt, req.Plaintext)
	if err != nil {
		observability.SetSpanError(ctx, err)
		RespondWithError(c, err)
		return
	}
	RespondOK(c, encryptResponse{Ciphertext: ct})
}

func (a *API) decrypt(c *gin.Context) {
	var req decryptRequest
	if !bind(c, &req) {
		return
	}
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanDecrypt)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrAlgorithm, encryption.Name(a.crypto))

	pt, err := a.crypto.Decrypt(req.Salt, req.Ciphertext)
	if err != nil {
		observability.SetSpanError(ctx, err)
		RespondWithError(c, err)
		return
	}
	RespondOK(c, decryptResponse{Plaintext: pt})
}

func (a *API) issue(c *gin.Context) {
	var req issueRequest
	if !bind(c, &req) {
		return
	}
	if req.TTLSeconds > int64(a.maxTTL/time.Second) {
		RespondWithError(c, apperrors.InvalidInput("ttl_seconds", "exceeds the maximum token lifetime"))
		return
	}
	_, span := observability.StartSpan(c.Request.Context(), observability.SpanTokenIssue)
	defer span.End()

	ttl := time.Duration(req.TTLSeconds) * time.Second
	token, expiry := a.tokens.Issue(req.Salt, req.Data, ttl)
	RespondCreated(c, issueResponse{Token: token, ExpiresAt: expiry.UTC()})
}

// verify answers 200 for every outcome: expired and invalid tokens are
// results, not request errors.
func (a *API) verify(c *gin.Context) {
	var req verifyRequest
	if !bind(c, &req) {
		return
	}
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanTokenVerify)
	defer span.End()

	r := a.tokens.VerifyHash(req.Salt, req.Data, req.Token)
	observability.SetSpanAttribute(ctx, observability.AttrTokenResult, r.String())
	RespondOK(c, verifyResponse{Result: r.String()})
}

// bind decodes the JSON body into req and validates it, writing the error
// response on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("", "request body must be a JSON object").WithCause(err))
		return false
	}
	if err := validation.Validate(req); err != nil {
		RespondWithError(c, err)
		return false
	}
	return true
}
