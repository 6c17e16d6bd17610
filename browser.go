package bizcard

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
)

// resolveBrowser returns the Chrome executable to launch. An explicit path
// wins; otherwise a Chromium build is downloaded when autoDownload is set,
// and the empty string lets chromedp search the usual install locations.
// Downloads are cached in ~/.cache/rod/browser (Unix) or
// %APPDATA%\rod\browser (Windows).
func resolveBrowser(cfg converterConfig) (string, error) {
	if cfg.chromePath != "" {
		return cfg.chromePath, nil
	}
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	if !cfg.autoDownload {
		return "", nil
	}
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("bizcard: downloading browser: %w", err)
	}
	return path, nil
}
