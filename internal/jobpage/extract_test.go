package jobpage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><body>
<h1>  Senior Go
	Engineer </h1>
<div class="job-details-jobs-unified-top-card__company-name">Acme Corp</div>
<div class="job-details-jobs-unified-top-card__primary-description-container">Berlin, Germany (Remote)</div>
<div id="job-details">
	<p>We build distributed systems in Go.</p>
	<p>You will own services end to end.</p>
</div>
</body></html>`

func TestParse(t *testing.T) {
	posting, err := Parse(samplePage)
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", posting.Title)
	assert.Equal(t, "Acme Corp", posting.Company)
	assert.Equal(t, "Berlin, Germany (Remote)", posting.Location)
	assert.Equal(t, "We build distributed systems in Go. You will own services end to end.", posting.Description)
}

func TestParseAlternateLayout(t *testing.T) {
	html := `<html><body>
<h1>Platform Engineer</h1>
<span class="artdeco-entity-lockup__company-name">Globex</span>
<div class="jobs-description__text--stretch">Kubernetes and Go, all day.</div>
</body></html>`

	posting, err := Parse(html)
	require.NoError(t, err)

	assert.Equal(t, "Platform Engineer", posting.Title)
	assert.Equal(t, "Globex", posting.Company)
	assert.Equal(t, "Kubernetes and Go, all day.", posting.Description)
}

func TestParseBodyFallback(t *testing.T) {
	html := `<html><body><main>Some unstructured job text here.</main></body></html>`

	posting, err := Parse(html)
	require.NoError(t, err)

	assert.Empty(t, posting.Title)
	assert.Empty(t, posting.Company)
	assert.Equal(t, "Some unstructured job text here.", posting.Description)
}
