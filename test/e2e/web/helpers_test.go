package web_test

import (
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/whisperlabs/whisperwall/internal/web/app"
)

// setupApp boots the whole application on a free local port and returns its
// base URL. The database and pepper live in a per-test temp dir.
func setupApp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	port := freePort(t)

	t.Setenv("PORT", fmt.Sprintf("%d", port))
	t.Setenv("ENV", "dev")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("DATABASE_FILE", filepath.Join(dir, "e2e.db"))
	t.Setenv("PEPPER_FILE", filepath.Join(dir, "pepper"))
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	application, err := app.New(app.LoadConfig())
	require.NoError(t, err)

	runErr := make(chan error, 1)
	go func() { runErr <- application.Run() }()
	t.Cleanup(func() {
		require.NoError(t, application.Shutdown())
		require.NoError(t, <-runErr)
	})

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	waitForReady(t, baseURL)
	return baseURL
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

func waitForReady(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("service did not become ready in time")
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func submitForm(t *testing.T, c *http.Client, target string, form url.Values) *http.Response {
	t.Helper()

	resp, err := c.Post(target, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
