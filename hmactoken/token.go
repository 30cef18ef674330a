package hmactoken

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/shhhinnovations/cryptokit/logger"
	"github.com/shhhinnovations/cryptokit/observability"
)

// tickSize is the length of the little-endian expiry prefix.
const tickSize = 8

var (
	toWire   = strings.NewReplacer("+", "-", "=", "_", "/", ",")
	fromWire = strings.NewReplacer("-", "+", "_", "=", ",", "/")
)

// Service computes and verifies expiring HMAC-SHA1 tokens.
//
// A token is the URL-safe rendering of base64(ticks || HMAC(key, ticks+salt+data)),
// where ticks is the little-endian expiry tick count and the signed input is
// the decimal tick count followed by salt and data, as UTF-8.
//
// Service is immutable after construction and safe for concurrent use.
type Service struct {
	key     []byte
	now     func() time.Time
	loc     *time.Location
	metrics *observability.CryptoMetrics
	log     *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone whose wall clock the tick counts are expressed
// in. Use time.Local to interoperate with issuers that stamp local time.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithMetrics records issued tokens and verification outcomes.
func WithMetrics(m *observability.CryptoMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger used for verification failures.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a token service keyed by key.
func New(key []byte, opts ...Option) *Service {
	s := &Service{
		key: append([]byte(nil), key...),
		now: time.Now,
		loc: time.UTC,
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeHash builds the token for (salt, data) expiring at expiry. The
// same key, salt, data and expiry always produce the same token.
func (s *Service) ComputeHash(salt, data string, expiry time.Time) string {
	return s.compute(salt, data, Ticks(expiry, s.loc))
}

// Issue computes a token that expires ttl from now. Only issued tokens
// count toward the issue metric.
func (s *Service) Issue(salt, data string, ttl time.Duration) (string, time.Time) {
	expiry := s.now().Add(ttl)
	s.metrics.RecordTokenIssued(context.Background())
	return s.ComputeHash(salt, data, expiry), expiry
}

// VerifyHash checks token against (salt, data). Expiry is checked before the
// digest, so an expired token reports Expired even when its digest matches.
func (s *Service) VerifyHash(salt, data, token string) Result {
	r, reason := s.verify(salt, data, token)
	s.metrics.RecordTokenVerification(context.Background(), r.String())
	if r != OK {
		s.log.Debug("token rejected", logger.Fields(
			logger.FieldOperation, "verify",
			logger.FieldResult, r.String(),
			"reason", reason,
		))
	}
	return r
}

func (s *Service) verify(salt, data, token string) (Result, string) {
	raw, err := base64.StdEncoding.DecodeString(fromWire.Replace(token))
	if err != nil {
		return Invalid, "malformed encoding"
	}
	if len(raw) < tickSize {
		return Invalid, "short token"
	}

	ticks := int64(binary.LittleEndian.Uint64(raw[:tickSize]))
	if ticks < 0 || ticks > MaxTicks {
		return Invalid, "timestamp out of range"
	}

	if FromTicks(ticks, s.loc).Before(s.now()) {
		return Expired, "expired"
	}

	want := s.compute(salt, data, ticks)
	if subtle.ConstantTimeCompare([]byte(want), []byte(token)) != 1 {
		return Invalid, "digest mismatch"
	}
	return OK, ""
}

func (s *Service) compute(salt, data string, ticks int64) string {
	mac := hmac.New(sha1.New, s.key)
	mac.Write([]byte(strconv.FormatInt(ticks, 10) + salt + data))
	digest := mac.Sum(nil)

	buf := make([]byte, tickSize, tickSize+len(digest))
	binary.LittleEndian.PutUint64(buf, uint64(ticks))
	buf = append(buf, digest...)

	return toWire.Replace(base64.StdEncoding.EncodeToString(buf))
}
