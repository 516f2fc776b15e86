package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCollapseWhitespace(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "  test  123 876\n", expected: "test 123 876"},
		{input: "\t1x\n  Pizza Margherita  ", expected: "1x Pizza Margherita"},
		{input: "", expected: ""},
		{input: " \n\t ", expected: ""},
	}
	for _, row := range table {
		require.Equal(t, row.expected, CollapseWhitespace(row.input))
	}
}

func parse(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestFirstText(t *testing.T) {
	doc := parse(t, `<div><p>Jan &amp; Piet<br>Street 1</p><p>Second</p></div>`)
	require.Equal(t, "Jan & Piet", FirstText(doc.Find("p")))
	require.Equal(t, "", FirstText(doc.Find("span")))
}

func TestLines(t *testing.T) {
	doc := parse(t, `<p>Janneke<br>Prins Hendrikstraat 19<br/>7443ZM Nijverdal<br />
		06 53830123 </p>`)
	lines := Lines(doc.Find("p"))
	require.Equal(t, []string{
		"Janneke",
		"Prins Hendrikstraat 19",
		"7443ZM Nijverdal",
		"06 53830123",
	}, lines)

	require.Nil(t, Lines(doc.Find("table")))
}
