package denm

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHazardLevelSeverity(t *testing.T) {
	assert := assert.New(t)

	assert.True(HazardLevel0.MoreSevereThan(HazardLevel1))
	assert.True(HazardLevel1.MoreSevereThan(HazardLevel2))
	assert.True(HazardLevel2.MoreSevereThan(HazardLevelNone))
	assert.False(HazardLevelNone.MoreSevereThan(HazardLevel2))
	assert.False(HazardLevel1.MoreSevereThan(HazardLevel1))
	assert.False(HazardLevel2.MoreSevereThan(HazardLevel0))
}

func TestHazardLevelText(t *testing.T) {
	var level HazardLevel
	require.NoError(t, level.UnmarshalText([]byte("level1")))
	assert.Equal(t, HazardLevel1, level)

	assert.Error(t, level.UnmarshalText([]byte("level9")))
	assert.Equal(t, "level(9)", HazardLevel(9).String())
}

func TestRelativeGeometryNaNAsNull(t *testing.T) {
	geometry := RelativeGeometry{
		DistanceMeters:  111.2,
		TimeToCollision: math.NaN(),
	}

	encoded, err := json.Marshal(geometry)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"time_to_collision":null`)

	var decoded RelativeGeometry
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, 111.2, decoded.DistanceMeters)
	assert.True(t, math.IsNaN(decoded.TimeToCollision))
}

func TestCauseCodeParse(t *testing.T) {
	assert := assert.New(t)

	code, err := ParseCauseCode("emergencyVehicleApproaching")
	assert.NoError(err)
	assert.Equal(CauseCodeEmergencyVehicleApproaching, code)

	code, err = ParseCauseCode("94")
	assert.NoError(err)
	assert.Equal(CauseCodeStationaryVehicle, code)

	_, err = ParseCauseCode("bananas")
	assert.Error(err)

	text, _ := CauseCode(42).MarshalText()
	assert.Equal("42", string(text))
}

func TestFixedWidthIdentification(t *testing.T) {
	identification := NewVehicleIdentification("abcdefghi", "defghijk")
	assert.Equal(t, "abc", identification.WMINumber)
	assert.Equal(t, "defghi", identification.VDS)

	goods := NewDangerousGoods("ABCDEFGHIJKLMNOPQRSTUVWXYZ", "SOAR")
	assert.Equal(t, "ABCDEFGHIJKLMNOPQRSTUVWX", goods.EmergencyActionCode)
	assert.Equal(t, "SOAR", goods.CompanyName)
}
