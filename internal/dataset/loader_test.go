package dataset

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"countrydash/internal/model"
)

func TestParseSource(t *testing.T) {
	require.Equal(t, Source{URL: "https://example.com/a.csv"}, ParseSource(" https://example.com/a.csv "))
	require.Equal(t, Source{FilePath: "/tmp/a.csv"}, ParseSource("file:///tmp/a.csv"))
	require.Equal(t, Source{FilePath: "data/a.xlsx"}, ParseSource("data/a.xlsx"))

	require.True(t, Source{URL: "https://example.com/a.XLSX?raw=1"}.isXLSX())
	require.False(t, Source{FilePath: "a.csv"}.isXLSX())
}

func TestParseCSVColumnAliases(t *testing.T) {
	in := "\ufeffCountry,Continent,Year,Population,GDP_per_capita,Life_Expectancy\n" +
		"Chad,Africa,1987,5000000,\"1,100.5\",45.1\n"
	rows, skipped, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Equal(t, []model.Row{{
		Country: "Chad", Continent: "Africa", Year: 1987,
		Population: 5000000, GDPPerCapita: 1100.5, LifeExpectancy: 45.1,
	}}, rows)
}

func TestParseCSVSkipsBadRows(t *testing.T) {
	in := "country,continent,year,pop,gdpPercap,lifeExp\n" +
		"A,Asia,2000,1,2,3\n" +
		"B,Asia,not-a-year,1,2,3\n" +
		",Asia,2000,1,2,3\n" +
		"C,Asia,2000.0,4,5,6\n"
	rows, skipped, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 2, skipped)
	require.Len(t, rows, 2)
	require.Equal(t, 2000, rows[1].Year)
}

func TestParseCSVMissingColumn(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader("country,year,pop\nA,2000,1\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"country", "continent", "year", "lifeExp", "pop", "gdpPercap"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Peru", "Americas", 1987, 63.5, 20000000, 4000.25}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Chile", "Americas", 1987, 72.1, 12000000, 5000}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	rows, skipped, err := ParseXLSX(&buf)
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Len(t, rows, 2)
	require.Equal(t, "Peru", rows[0].Country)
	require.Equal(t, 4000.25, rows[0].GDPPerCapita)
	require.Equal(t, "Chile", rows[1].Country)
}

func TestLoadFromURL(t *testing.T) {
	body, err := os.ReadFile(sampleSource().FilePath)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gapminder.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	ds, stats, err := Load(context.Background(), Source{URL: srv.URL + "/gapminder.csv"})
	require.NoError(t, err)
	require.Equal(t, len(body), stats.Bytes)
	require.Equal(t, 2007, ds.MaxYear())

	_, _, err = Load(context.Background(), Source{URL: srv.URL + "/missing.csv"})
	require.ErrorContains(t, err, "unexpected status 404")
}
