package export

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ratingsCSV = "user id,movie,rating\n1,Heat,4.5\n2,Ronin,\n3,Drive,3\n"

func ratings(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ReadCSV("ratings.csv", strings.NewReader(ratingsCSV), dataset.LoadOptions{})
	require.NoError(t, err)
	return ds
}

func TestCSVAndEncodings(t *testing.T) {
	b, err := CSV(ratings(t))
	require.NoError(t, err)
	assert.Equal(t, "user id,movie,rating\n1,Heat,4.5\n2,Ronin,\n3,Drive,3.0\n", string(b))

	enc := Base64(b)
	dec, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	assert.Equal(t, b, dec)

	uri := DataURI(b)
	assert.True(t, strings.HasPrefix(uri, "data:file/csv;base64,"))
	assert.True(t, strings.HasSuffix(uri, enc))
}

func TestDownloadLink(t *testing.T) {
	b := []byte("a\n1\n")
	assert.Equal(t, `<a href="data:file/csv;base64,YQoxCg==">Download csv file</a>`, DownloadLink(b, ""))
	assert.Contains(t, DownloadLink(b, "Get it"), ">Get it</a>")
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	ds := ratings(t)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, ds, ""))

	back, err := dataset.ReadXLSX("ratings.xlsx", &buf, dataset.LoadOptions{Sheet: "data"})
	require.NoError(t, err)
	assert.Equal(t, ds.Names(), back.Names())
	assert.Equal(t, ds.Nrow(), back.Nrow())

	k, err := back.Kind("rating")
	require.NoError(t, err)
	assert.Equal(t, dataset.KindNumeric, k)
	n, err := back.MissingCount("rating")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	vals, err := back.NonMissing("rating")
	require.NoError(t, err)
	assert.Equal(t, []float64{4.5, 3}, vals)
}
