package api

import (
	"bytes"
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/time/rate"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"

	logMsgRequestHandled   = "request handled"
	logMsgDecryptionFailed = "decrypting request failed"

	logAttrCorrelationID = "correlation_id"
	logAttrMethod        = "method"
	logAttrStatus        = "status"
	logAttrDurationMS    = "duration_ms"
	logAttrSourceIP      = "source_ip"
)

var (
	ErrInvalidEncryptionKey = errors.New("encryption key must be 32 bytes")
	ErrCiphertextTooShort   = errors.New("ciphertext is shorter than the nonce")
)

type correlationIDKey struct{}

// CorrelationIDFromContext returns the request's correlation id, "" outside a request.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// CorrelationID takes the X-Correlation-ID request header, or a new uuid if there is none,
// stores it in the request context and echoes it in the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(CorrelationIDHeader))
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(CorrelationIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), correlationIDKey{}, id)))
	})
}

// CorrelationLogHandler adds the correlation id of the logging context to every record.
type CorrelationLogHandler struct {
	slog.Handler
}

// NewCorrelationLogHandler wraps next.
func NewCorrelationLogHandler(next slog.Handler) *CorrelationLogHandler {
	return &CorrelationLogHandler{Handler: next}
}

func (h *CorrelationLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if id := CorrelationIDFromContext(ctx); id != "" {
		record.AddAttrs(slog.String(logAttrCorrelationID, id))
	}

	return h.Handler.Handle(ctx, record)
}

func (h *CorrelationLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CorrelationLogHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *CorrelationLogHandler) WithGroup(name string) slog.Handler {
	return &CorrelationLogHandler{Handler: h.Handler.WithGroup(name)}
}

// RequestLogger logs method, path, status, duration and source ip of every request.
func RequestLogger(logger *slog.Logger, clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := clock()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logger.InfoContext(r.Context(), logMsgRequestHandled,
				logAttrMethod, r.Method,
				logAttrPath, r.URL.Path,
				logAttrStatus, status,
				logAttrDurationMS, float64(clock().Sub(start).Nanoseconds())/1e6,
				logAttrSourceIP, clientKey(r),
			)
		})
	}
}

// clientKey identifies the caller by the host part of RemoteAddr.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}

	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return "unknown"
}

/***** Rate limiting *****/

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter hands out one token bucket per client.
type RateLimiter struct {
	entries *xsync.MapOf[string, *limiterEntry]
	rps     rate.Limit
	burst   int
	clock   func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing rps requests per second with the given burst per client.
func NewRateLimiter(rps float64, burst int, clock func() time.Time) *RateLimiter {
	if clock == nil {
		clock = time.Now
	}

	return &RateLimiter{
		entries: xsync.NewMapOf[string, *limiterEntry](),
		rps:     rate.Limit(rps),
		burst:   burst,
		clock:   clock,
	}
}

// Allow reports whether the client may make a request now.
func (l *RateLimiter) Allow(key string) bool {
	now := l.clock()

	entry, _ := l.entries.LoadOrCompute(key, func() *limiterEntry {
		return &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
	})
	entry.lastSeen.Store(now.UnixNano())

	return entry.limiter.AllowN(now, 1)
}

// Cleanup forgets clients that were idle for longer than idleTTL.
func (l *RateLimiter) Cleanup(idleTTL time.Duration) {
	cutoff := l.clock().Add(-idleTTL).UnixNano()

	l.entries.Range(func(key string, entry *limiterEntry) bool {
		if entry.lastSeen.Load() < cutoff {
			l.entries.Delete(key)
		}

		return true
	})
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (l *RateLimiter) StartJanitor(ctx context.Context, interval, idleTTL time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup(idleTTL)
			}
		}
	}()
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	retryAfter := "1"
	if l.rps > 0 && l.rps < 1 {
		retryAfter = strconv.Itoa(int(1/float64(l.rps) + 0.5))
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", retryAfter)
			writeJSON(w, http.StatusTooManyRequests, messageResponse{Message: http.StatusText(http.StatusTooManyRequests)})
			return
		}

		next.ServeHTTP(w, r)
	})
}

/***** Encrypted envelope *****/

type envelope struct {
	EncryptedData string `json:"encryptedData"`
}

// Envelope encrypts and decrypts payloads with ChaCha20-Poly1305.
// The wire form is base64(nonce || ciphertext).
type Envelope struct {
	aead cipher.AEAD
}

// NewEnvelope creates an Envelope from a 32 byte key.
func NewEnvelope(key []byte) (*Envelope, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidEncryptionKey
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.Join(ErrInvalidEncryptionKey, err)
	}

	return &Envelope{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random nonce.
func (e *Envelope) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(plaintext)+e.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(e.aead.Seal(nonce, nonce, plaintext, nil)), nil
}

// Open reverses Seal.
func (e *Envelope) Open(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	if len(raw) < e.aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}

	nonce, ciphertext := raw[:e.aead.NonceSize()], raw[e.aead.NonceSize():]

	return e.aead.Open(nil, nonce, ciphertext, nil)
}

// Middleware decrypts request bodies of the form {"encryptedData": ...} and encrypts every response body.
// Request bodies without encryptedData pass through unchanged.
func (e *Envelope) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := e.decryptRequest(r); err != nil {
				logger.WarnContext(r.Context(), logMsgDecryptionFailed, logAttrError, err.Error())
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid encrypted request"})
				return
			}

			buffered := &bufferedResponseWriter{header: make(http.Header)}
			next.ServeHTTP(buffered, r)

			for key, values := range buffered.header {
				w.Header()[key] = values
			}

			if buffered.body.Len() == 0 {
				w.WriteHeader(buffered.statusOrOK())
				return
			}

			sealed, err := e.Seal(buffered.body.Bytes())
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Failed to encrypt response"})
				return
			}

			w.Header().Del("Content-Length")
			writeJSON(w, buffered.statusOrOK(), envelope{EncryptedData: sealed})
		})
	}
}

func (e *Envelope) decryptRequest(r *http.Request) error {
	if r.Method == http.MethodGet || r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return err
	}

	r.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}

	if env.EncryptedData == "" {
		return nil
	}

	plaintext, err := e.Open(env.EncryptedData)
	if err != nil {
		return err
	}

	r.Body = io.NopCloser(bytes.NewReader(plaintext))
	r.ContentLength = int64(len(plaintext))

	return nil
}

type bufferedResponseWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func (b *bufferedResponseWriter) Header() http.Header { return b.header }

func (b *bufferedResponseWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}

	return b.body.Write(p)
}

func (b *bufferedResponseWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedResponseWriter) statusOrOK() int {
	if b.status == 0 {
		return http.StatusOK
	}

	return b.status
}
