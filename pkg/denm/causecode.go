package denm

import (
	"fmt"
	"strconv"
	"strings"
)

// CauseCode identifies the event type carried in a situation container
type CauseCode int

const (
	CauseCodeReserved                    CauseCode = 0
	CauseCodeTrafficCondition            CauseCode = 1
	CauseCodeAccident                    CauseCode = 2
	CauseCodeRoadworks                   CauseCode = 3
	CauseCodeSlowVehicle                 CauseCode = 26
	CauseCodeDangerousEndOfQueue         CauseCode = 27
	CauseCodeVehicleBreakdown            CauseCode = 91
	CauseCodePostCrash                   CauseCode = 92
	CauseCodeStationaryVehicle           CauseCode = 94
	CauseCodeEmergencyVehicleApproaching CauseCode = 95
	CauseCodeCollisionRisk               CauseCode = 97
	CauseCodeDangerousSituation          CauseCode = 99
	CauseCodeDisasterManagement          CauseCode = 100
)

var causeCodeNames = map[CauseCode]string{
	CauseCodeReserved:                    "reserved",
	CauseCodeTrafficCondition:            "trafficCondition",
	CauseCodeAccident:                    "accident",
	CauseCodeRoadworks:                   "roadworks",
	CauseCodeSlowVehicle:                 "slowVehicle",
	CauseCodeDangerousEndOfQueue:         "dangerousEndOfQueue",
	CauseCodeVehicleBreakdown:            "vehicleBreakdown",
	CauseCodePostCrash:                   "postCrash",
	CauseCodeStationaryVehicle:           "stationaryVehicle",
	CauseCodeEmergencyVehicleApproaching: "emergencyVehicleApproaching",
	CauseCodeCollisionRisk:               "collisionRisk",
	CauseCodeDangerousSituation:          "dangerousSituation",
	CauseCodeDisasterManagement:          "disasterManagement",
}

func (c CauseCode) String() string {
	if name, exists := causeCodeNames[c]; exists {
		return name
	}

	return fmt.Sprintf("causeCode(%d)", int(c))
}

// ParseCauseCode accepts either the camelCase name or the numeric value
func ParseCauseCode(value string) (CauseCode, error) {
	for code, name := range causeCodeNames {
		if strings.EqualFold(name, value) {
			return code, nil
		}
	}

	number, err := strconv.Atoi(value)
	if err != nil || number < 0 || number > 255 {
		return CauseCodeReserved, fmt.Errorf("unknown cause code %q", value)
	}

	return CauseCode(number), nil
}

func (c CauseCode) MarshalText() ([]byte, error) {
	if name, exists := causeCodeNames[c]; exists {
		return []byte(name), nil
	}

	return []byte(strconv.Itoa(int(c))), nil
}

func (c *CauseCode) UnmarshalText(text []byte) error {
	code, err := ParseCauseCode(string(text))
	if err != nil {
		return err
	}

	*c = code
	return nil
}

// Sub cause codes used by the transmitting use-cases
const (
	SubCauseUnavailable                     = 0
	SubCauseEmergencyElectronicBrakeEngaged = 1
	SubCauseCollisionRiskWarningEngaged     = 7
	SubCauseLocalAreaEmergency              = 1
)
