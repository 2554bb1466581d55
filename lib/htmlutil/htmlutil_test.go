package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCellTexts(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div><span class="cell">Open Seats: <b>5</b></span><span class="cell">Wait List: -</span></div>`,
	))
	require.NoError(t, err)

	texts := CellTexts(doc.Find(".cell"))
	require.Equal(t, []string{"Open Seats: 5", "Wait List: -"}, texts)
}
