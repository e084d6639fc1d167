package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resfuse/internal/types"
)

func ptr(v float64) *float64 { return &v }

func TestWriteCSV(t *testing.T) {
	recs := []types.FusedRecord{
		{
			Timestamp:        time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
			PowerKW:          100,
			Clouds:           ptr(60),
			WindSpeed:        ptr(5.5),
			WindDir:          ptr(270),
			Sun:              ptr(0.8),
			Temp:             ptr(18.3),
			ResourceKind:     types.ResourceWind,
			SiteName:         "windfarm-alpha",
			InstalledPowerKW: 2500,
		},
		{
			Timestamp:        time.Date(2021, 6, 1, 0, 15, 0, 0, time.UTC),
			PowerKW:          110.25,
			Temp:             ptr(-4.2),
			ResourceKind:     types.ResourceWind,
			SiteName:         "windfarm-alpha",
			InstalledPowerKW: 2500,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))

	want := strings.Join([]string{
		"timestamp,power_kw,clouds,wind_speed,wind_dir,sun,temp,resource_type,name,installed_power",
		"2021-06-01T00:00:00Z,100,60,5.5,270,0.8,18.3,wind,windfarm-alpha,2500",
		"2021-06-01T00:15:00Z,110.25,,,,,-4.2,wind,windfarm-alpha,2500",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVNoRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t,
		"timestamp,power_kw,clouds,wind_speed,wind_dir,sun,temp,resource_type,name,installed_power\n",
		buf.String())
}

func TestWriteCSVNormalizesTimestampsToUTC(t *testing.T) {
	warsaw := time.FixedZone("CEST", 2*60*60)
	recs := []types.FusedRecord{{
		Timestamp:    time.Date(2021, 6, 1, 14, 0, 0, 0, warsaw),
		PowerKW:      1,
		ResourceKind: types.ResourcePV,
		SiteName:     "solar-park",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))
	assert.Contains(t, buf.String(), "2021-06-01T12:00:00Z")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSVWriterFailure(t *testing.T) {
	err := WriteCSV(failWriter{}, nil)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeStoreWrite, appErr.Code)
}
