package protocol

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wordlink/wordlink/pkg/logger"
	"github.com/wordlink/wordlink/pkg/middleware"
)

// Version is reported by the detection ping.
const Version = "1.0.0"

var ErrAlreadyRunning = errors.New("another handler instance is running")

// pingLinger lets the ping response reach the browser before shutdown.
const pingLinger = 100 * time.Millisecond

// wsaeaddrinuse is the Winsock code for an address already in use.
const wsaeaddrinuse = 10048

type PingResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Detector is the short-lived loopback server a web page probes to learn
// whether the protocol handler is installed. It stops after the first ping,
// after its timeout, or when its context ends.
type Detector struct {
	addr    string
	timeout time.Duration
	grace   time.Duration
	engine  *gin.Engine

	once     sync.Once
	pinged   chan struct{}
	requests int
	mu       sync.Mutex
	now      func() time.Time
}

func NewDetector(port int, timeout, grace time.Duration) *Detector {
	d := &Detector{
		addr:    net.JoinHostPort("127.0.0.1", strconv.Itoa(port)),
		timeout: timeout,
		grace:   grace,
		pinged:  make(chan struct{}),
		now:     time.Now,
	}
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), d.logRequest, closeConnection, middleware.CORS("GET, OPTIONS"))
	r.GET("/ping", d.ping)
	r.GET("/ping/", d.ping)
	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})
	d.engine = r
	return d
}

// Handler exposes the router, mainly for tests.
func (d *Detector) Handler() http.Handler { return d.engine }

// Pinged is closed once a ping has been answered.
func (d *Detector) Pinged() <-chan struct{} { return d.pinged }

func (d *Detector) logRequest(c *gin.Context) {
	d.mu.Lock()
	d.requests++
	n := d.requests
	d.mu.Unlock()
	logger.Infof("[Request #%d] %s %s", n, c.Request.Method, c.Request.URL.RequestURI())
	c.Next()
}

func closeConnection(c *gin.Context) {
	c.Header("Connection", "close")
	c.Next()
}

func (d *Detector) ping(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Success:   true,
		Message:   "WordAddin handler is installed",
		Version:   Version,
		Timestamp: d.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	logger.Infof("Ping successful! Handler detected.")
	d.once.Do(func() { close(d.pinged) })
}

// Listen binds the loopback port. A port already in use means another
// handler instance is serving and yields ErrAlreadyRunning.
func (d *Detector) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", d.addr)
	if err != nil {
		if addrInUse(err) {
			return nil, fmt.Errorf("%w: port %s in use", ErrAlreadyRunning, d.addr)
		}
		return nil, err
	}
	logger.Infof("Server listening on %s", ln.Addr())
	return ln, nil
}

func addrInUse(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EADDRINUSE || errno == wsaeaddrinuse
	}
	return false
}

// Serve answers probes on ln until a ping is served, the timeout passes or
// ctx ends, then shuts down within the grace period.
func (d *Detector) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: d.engine, ReadHeaderTimeout: d.timeout}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case <-d.pinged:
		select {
		case <-time.After(pingLinger):
		case <-ctx.Done():
		}
		logger.Infof("Ping served - initiating shutdown")
	case <-timer.C:
		logger.Infof("Timeout reached (%s) - no ping received", d.timeout)
	case <-ctx.Done():
		logger.Infof("Interrupted - initiating shutdown")
	case err := <-errCh:
		return err
	}

	logger.Infof("Initiating graceful shutdown...")
	shCtx, cancel := context.WithTimeout(context.Background(), d.grace)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warnf("graceful shutdown: %v", err)
		_ = srv.Close()
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Infof("Server closed successfully")
	return nil
}

// Run listens and serves.
func (d *Detector) Run(ctx context.Context) error {
	ln, err := d.Listen()
	if err != nil {
		return err
	}
	return d.Serve(ctx, ln)
}
