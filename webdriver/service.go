package webdriver

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/wanmail/fluent"
)

// newExecCommand is replaced in tests.
var newExecCommand = exec.Command

// DefaultStartTimeout bounds how long a driver may take to come up.
const DefaultStartTimeout = 30 * time.Second

// ServiceOption configures a Service before its driver starts.
type ServiceOption func(*Service) error

// Display runs the driver against X display d (":d" in DISPLAY), with the
// credentials in xauthPath if it is not empty. d is "N" or "N.S".
func Display(d, xauthPath string) ServiceOption {
	return func(s *Service) error {
		if s.display != "" {
			return fmt.Errorf("display already set to %q", s.display)
		}
		if !isDisplay(d) {
			return fmt.Errorf("display %q: want N or N.S with integer N and S", d)
		}
		s.display, s.xauthPath = d, xauthPath
		return nil
	}
}

func isDisplay(d string) bool {
	num, screen, hasScreen := strings.Cut(d, ".")
	if _, err := strconv.Atoi(num); err != nil {
		return false
	}
	if !hasScreen {
		return true
	}
	_, err := strconv.Atoi(screen)
	return err == nil
}

// Output sends the driver's stdout and stderr to w.
func Output(w io.Writer) ServiceOption {
	return func(s *Service) error {
		s.output = w
		return nil
	}
}

// StartTimeout replaces DefaultStartTimeout.
func StartTimeout(d time.Duration) ServiceOption {
	return func(s *Service) error {
		if d <= 0 {
			return fmt.Errorf("start timeout must be positive, got %v", d)
		}
		s.startTimeout = d
		return nil
	}
}

// launcher describes how a driver executable is started and stopped.
type launcher struct {
	// prefix is the path the driver serves WebDriver commands under.
	prefix string
	// shutdown is requested to stop the driver; empty means kill it.
	shutdown string
	args     func(port string) []string
}

var launchers = map[fluent.Browser]launcher{
	fluent.Chrome: {
		prefix:   "/wd/hub",
		shutdown: "/shutdown",
		args: func(port string) []string {
			return []string{"--port=" + port, "--url-base=wd/hub", "--verbose"}
		},
	},
	fluent.Firefox: {
		args: func(port string) []string { return []string{"--port", port} },
	},
	fluent.InternetExplorer: {
		args: func(port string) []string { return []string{"--port=" + port} },
	},
	fluent.PhantomJS: {
		args: func(port string) []string { return []string{"--webdriver=" + port} },
	},
}

func launcherFor(b fluent.Browser) (launcher, bool) {
	switch b {
	case fluent.ChromeHeadless:
		b = fluent.Chrome
	case fluent.FirefoxHeadless:
		b = fluent.Firefox
	case fluent.InternetExplorer64:
		b = fluent.InternetExplorer
	}
	l, ok := launchers[b]
	return l, ok
}

// Service is a driver executable running in the background.
type Service struct {
	cmd      *exec.Cmd
	port     int
	addr     string
	shutdown string

	display, xauthPath string
	startTimeout       time.Duration
	output             io.Writer
}

// Addr returns the executor URL of the running driver.
func (s *Service) Addr() string { return s.addr }

// NewService starts the driver of browser b found at path, listening on
// port, and waits until it answers its status endpoint. A port of 0 picks a
// free one.
func NewService(b fluent.Browser, path string, port int, opts ...ServiceOption) (*Service, error) {
	l, ok := launcherFor(b)
	if !ok {
		return nil, &fluent.UnsupportedBrowserError{Browser: string(b), Reason: "no local driver"}
	}
	if port == 0 {
		var err error
		if port, err = freePort(); err != nil {
			return nil, err
		}
	}

	s := &Service{
		port:         port,
		addr:         fmt.Sprintf("http://localhost:%d%s", port, l.prefix),
		shutdown:     l.shutdown,
		startTimeout: DefaultStartTimeout,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	cmd := newExecCommand(path, l.args(strconv.Itoa(port))...)
	cmd.Stdout, cmd.Stderr = s.output, s.output
	cmd.Env = append(os.Environ(), cmd.Env...)
	if s.display != "" {
		cmd.Env = append(cmd.Env, "DISPLAY=:"+s.display)
	}
	if s.xauthPath != "" {
		cmd.Env = append(cmd.Env, "XAUTHORITY="+s.xauthPath)
	}
	s.cmd = cmd

	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewChromeDriverService starts ChromeDriver.
func NewChromeDriverService(path string, port int, opts ...ServiceOption) (*Service, error) {
	return NewService(fluent.Chrome, path, port, opts...)
}

// NewGeckoDriverService starts GeckoDriver.
func NewGeckoDriverService(path string, port int, opts ...ServiceOption) (*Service, error) {
	return NewService(fluent.Firefox, path, port, opts...)
}

func (s *Service) start() error {
	if err := s.cmd.Start(); err != nil {
		return err
	}

	deadline := time.Now().Add(s.startTimeout)
	for {
		if s.ready() {
			glog.V(1).Infof("driver %s ready at %s", s.cmd.Path, s.addr)
			return nil
		}
		if time.Now().After(deadline) {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	s.cmd.Process.Kill()
	s.cmd.Wait()
	return fmt.Errorf("driver %s did not answer on port %d within %v", s.cmd.Path, s.port, s.startTimeout)
}

// ready reports whether the driver answers its status endpoint. Old servers
// answer with 400 or 403 rather than 200.
func (s *Service) ready() bool {
	resp, err := http.Get(s.addr + "/status")
	if err != nil {
		return false
	}
	resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusBadRequest, http.StatusForbidden:
		return true
	}
	return false
}

// Stop asks the driver to shut down, or kills it if it has no shutdown
// endpoint, and waits for it to exit.
func (s *Service) Stop() error {
	if s.shutdown != "" {
		resp, err := http.Get(s.addr + s.shutdown)
		if err != nil {
			return err
		}
		resp.Body.Close()
	} else if err := s.cmd.Process.Kill(); err != nil {
		return err
	}
	if err := s.cmd.Wait(); err != nil {
		if ee, ok := err.(*exec.ExitError); !ok || ee.Exited() {
			return err
		}
	}
	return nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
