package browser

import (
	"os"
	"os/exec"
	"runtime"
)

var chromeNames = []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}

// FindChrome on the FS, preferring configured when set. Returns the binary and the
// directory profiles are created in.
func FindChrome(configured string) (string, string, error) {
	tmp := os.TempDir()
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", tmp, ErrChromeNotFound
		}
		return configured, tmp, nil
	}

	switch runtime.GOOS {
	case "windows":
		return existing(tmp, "C:\\Program Files (x86)\\Google\\Chrome\\Application\\chrome.exe",
			"C:\\Program Files\\Google\\Chrome\\Application\\chrome.exe")
	case "darwin":
		return existing(tmp, "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium")
	}
	for _, name := range chromeNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, tmp, nil
		}
	}
	return "", tmp, ErrChromeNotFound
}

func existing(tmp string, paths ...string) (string, string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, tmp, nil
		}
	}
	return "", tmp, ErrChromeNotFound
}
