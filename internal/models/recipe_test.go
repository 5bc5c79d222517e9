package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBStringArrayRoundTrip(t *testing.T) {
	arr := JSONBStringArray{"2 pechugas de pollo", "1 cebolla"}

	value, err := arr.Value()
	require.NoError(t, err)

	var scanned JSONBStringArray
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, arr, scanned)
}

func TestJSONBStringArrayEmptyAndNil(t *testing.T) {
	value, err := JSONBStringArray{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	var scanned JSONBStringArray
	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}

func TestJSONBMeasuresRoundTrip(t *testing.T) {
	measures := JSONBMeasures{
		{Name: "pechuga de pollo", Amount: 2, Unit: "piezas"},
		{Name: "harina", Amount: 0.5, Unit: "tazas"},
	}

	value, err := measures.Value()
	require.NoError(t, err)

	var scanned JSONBMeasures
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, measures, scanned)
}

func TestJSONBMeasuresScanFromString(t *testing.T) {
	var scanned JSONBMeasures
	require.NoError(t, scanned.Scan(`[{"name":"cebolla","amount":1,"unit":"grande"}]`))
	require.Len(t, scanned, 1)
	assert.Equal(t, "cebolla", scanned[0].Name)
}
