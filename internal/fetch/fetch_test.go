package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPageHTML = `<!DOCTYPE html>
<html>
<head><title>Job</title><script>var tracking = 1;</script></head>
<body>
	<nav>Home | Jobs | About</nav>
	<div class="job-description">
		<h1>Senior Backend Engineer</h1>
		<p>We are looking for an engineer with Go and PostgreSQL experience.</p>
	</div>
	<footer>Copyright</footer>
</body>
</html>`

func TestURLFetchesContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "SkillGapAgent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(jobPageHTML))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "Senior Backend Engineer")
}

func TestURLRejectsInvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-url", nil)
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Message, "invalid URL")
}

func TestURLNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestExtractMainTextUsesSelectors(t *testing.T) {
	text, err := ExtractMainText(jobPageHTML, JobPostingSelectors())
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Backend Engineer")
	assert.Contains(t, text, "Go and PostgreSQL")
	assert.NotContains(t, text, "Home | Jobs")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "tracking")
}

func TestExtractMainTextFallsBackToBody(t *testing.T) {
	html := `<html><body><p>Plain page without landmarks.</p></body></html>`
	text, err := ExtractMainText(html, JobPostingSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Plain page without landmarks.", text)
}

func TestJobPostingReturnsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jobPageHTML))
	}))
	defer server.Close()

	result, err := JobPosting(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "Senior Backend Engineer")
}

func TestJobPostingEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer server.Close()

	_, err := JobPosting(context.Background(), server.URL, nil)
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Message, "no readable content")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short"))
	assert.True(t, ShouldUseBrowser("   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("long enough content ", 50)))
}

func TestCleanWhitespace(t *testing.T) {
	input := "  line one  \n\n\n   line two\t\n   \n"
	assert.Equal(t, "line one\nline two", cleanWhitespace(input))
}
