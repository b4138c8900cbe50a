package csvsniff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiment-web/internal/apperr"
	"sentiment-web/internal/models"
)

func TestSniff_Preview(t *testing.T) {
	input := "id, \"Text\" ,source\r\n\n1,\"great product\",web\n2,awful,\n\n3,meh,app\n"

	preview, err := Sniff(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Text", "source"}, preview.Headers)
	require.Len(t, preview.Rows, 3)
	assert.Equal(t, models.CsvRow{"id": "1", "Text": "great product", "source": "web"}, preview.Rows[0])
	assert.Equal(t, "", preview.Rows[1]["source"])
	assert.Equal(t, "meh", preview.Rows[2]["Text"])
}

func TestSniff_LimitsPreviewRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("text\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "row %d\n", i)
	}

	preview, err := Sniff(b.String())
	require.NoError(t, err)
	require.Len(t, preview.Rows, PreviewRows)
	assert.Equal(t, "row 4", preview.Rows[4]["text"])
}

func TestSniff_MissingTextColumn(t *testing.T) {
	inputs := []string{
		"review,score\nnice,5\n",
		"\n\n  \ncomment\ntext\n",
		"texts\nhello\n",
	}

	for _, input := range inputs {
		_, err := Sniff(input)
		require.Error(t, err, input)
		assert.True(t, apperr.IsValidation(err))
		assert.Contains(t, err.Error(), `Missing required column: "text"`)
	}
}

func TestSniff_ReportsFoundHeaders(t *testing.T) {
	_, err := Sniff("review,score\n")
	require.Error(t, err)
	assert.Equal(t, `Invalid CSV format. Missing required column: "text". Found: review, score`, err.Error())
}

func TestSniff_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \n\t\n"} {
		_, err := Sniff(input)
		var formatErr *apperr.FormatError
		assert.ErrorAs(t, err, &formatErr)
	}
}

func TestSniff_HeaderOnly(t *testing.T) {
	preview, err := Sniff("TEXT\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"TEXT"}, preview.Headers)
	assert.Empty(t, preview.Rows)
}

func TestCheckFileName(t *testing.T) {
	assert.NoError(t, CheckFileName("reviews.csv"))
	assert.Error(t, CheckFileName("reviews.xlsx"))
	assert.Error(t, CheckFileName("reviews.CSV"))
	assert.Error(t, CheckFileName(""))
}
