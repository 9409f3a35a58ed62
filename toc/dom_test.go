package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateHeadings(t *testing.T) {
	html := `<article>
<h1 id="pageTitle">My Post</h1>
<h1 id="Intro">Intro</h1>
<p>text</p>
<h2 id="Setup">Setup</h2>
<h4 id="Deep">Deep</h4>
<h3>No id</h3>
<h3 id="Notes">Notes</h3>
</article>`
	ids, err := LocateHeadings(html)
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro", "Setup", "Notes"}, ids)
}

func TestLocateHeadingsEmpty(t *testing.T) {
	ids, err := LocateHeadings("<p>nothing here</p>")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
