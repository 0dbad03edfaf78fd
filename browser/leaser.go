package browser

import (
	"net"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
)

// LeaserService starts and stops chrome processes by debugger port
type LeaserService interface {
	Acquire() (string, error) // returns port number
	Return(port string) error
	Cleanup() (string, error)
	Count() (string, error)
}

var startupFlags = []string{
	"--enable-automation",
	"--test-type",
	"--disable-client-side-phishing-detection",
	"--disable-component-update",
	"--disable-infobars",
	"--disable-domain-reliability",
	"--disable-background-networking",
	"--disable-sync",
	"--disable-default-apps",
	"--disable-popup-blocking",
	"--disable-extensions",
	"--disable-features=TranslateUI",
	"--disable-gpu",
	"--disable-dev-shm-usage",
	"--no-sandbox",
	"--no-first-run",
	"--window-size=1024,768",
	"--password-store=basic",
}

func randPort() string {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		log.Warn().Err(err).Msg("unable to get port using default 9022")
		return "9022"
	}
	_, randPort, _ := net.SplitHostPort(l.Addr().String())
	l.Close()
	return randPort
}

func randProfile(tmp string) (string, error) {
	profile, err := os.MkdirTemp(tmp, "darcyk")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temporary profile directory")
	}
	if profile == "" {
		return "", errors.New("profile returned empty which could delete system files on termination")
	}
	return profile, nil
}

// LocalLeaser starts chrome processes on this machine
type LocalLeaser struct {
	browserLock sync.RWMutex
	browsers    map[string]*gcd.Gcd
	profiles    map[string]string
	chrome      string
	tmp         string
	flags       []string
}

// NewLocalLeaser for the chrome binary, creating profiles under tmp
func NewLocalLeaser(chrome, tmp string, headless bool) *LocalLeaser {
	flags := append([]string{}, startupFlags...)
	if headless {
		flags = append(flags, "--headless")
	}
	flags = append(flags, "about:blank")
	return &LocalLeaser{
		browsers: make(map[string]*gcd.Gcd),
		profiles: make(map[string]string),
		chrome:   chrome,
		tmp:      tmp,
		flags:    flags,
	}
}

func (s *LocalLeaser) Acquire() (string, error) {
	b := gcd.NewChromeDebugger()
	b.DeleteProfileOnExit()

	profileDir, err := randProfile(s.tmp)
	if err != nil {
		return "", err
	}
	port := randPort()

	b.AddFlags(s.flags)
	if err := b.StartProcess(s.chrome, profileDir, port); err != nil {
		return "", err
	}
	s.browserLock.Lock()
	s.browsers[port] = b
	s.profiles[port] = profileDir
	s.browserLock.Unlock()

	return port, nil
}

func (s *LocalLeaser) Count() (string, error) {
	s.browserLock.RLock()
	count := len(s.browsers)
	s.browserLock.RUnlock()
	return strconv.Itoa(count), nil
}

func (s *LocalLeaser) Return(port string) error {
	s.browserLock.Lock()
	defer s.browserLock.Unlock()

	if b, ok := s.browsers[port]; ok {
		if err := b.ExitProcess(); err != nil {
			return err
		}
		profile := s.profiles[port]
		delete(s.browsers, port)
		delete(s.profiles, port)
		return os.RemoveAll(profile)
	}

	return errors.New("not found")
}

// Cleanup stops every browser this leaser started and removes their profiles
func (s *LocalLeaser) Cleanup() (string, error) {
	s.browserLock.Lock()
	for port, b := range s.browsers {
		if err := b.ExitProcess(); err != nil {
			log.Warn().Err(err).Str("port", port).Msg("failed to exit browser")
		}
		delete(s.browsers, port)
	}
	profiles := s.profiles
	s.profiles = make(map[string]string)
	s.browserLock.Unlock()

	for _, profile := range profiles {
		if err := os.RemoveAll(profile); err != nil {
			return "", err
		}
	}
	return "ok", nil
}
