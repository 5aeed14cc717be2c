package services

import (
	"math"
	"strconv"

	"vnwidget/internal/models"
)

const GB = 1024 * 1024 * 1024

var (
	byteUnits   = []string{"B", "KB", "MB", "GB", "TB"}
	countSuffix = []string{"", "k", "m", "b", "t"}
)

// FormatByteSize renders a byte count with 1024-based units.
// Precision depends on the scaled value: >=100 none, >=10 one, else two decimals.
func FormatByteSize(bytes float64) string {
	if bytes <= 0 || math.IsNaN(bytes) {
		return "0 B"
	}

	// Repeated division instead of log() keeps exact powers of 1024 on the right unit.
	value := bytes
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	return formatFixed(value, decimalsFor(value)) + " " + byteUnits[unit]
}

func decimalsFor(value float64) int {
	switch {
	case value >= 100:
		return 0
	case value >= 10:
		return 1
	default:
		return 2
	}
}

// FormatCount abbreviates large counts: 1500 -> "1.5k", 2500000 -> "2.5m".
func FormatCount(n float64) string {
	if n < 1000 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	value := n
	suffix := 0
	for value >= 1000 && suffix < len(countSuffix)-1 {
		value /= 1000
		suffix++
	}

	return formatFixed(value, 1) + countSuffix[suffix]
}

// ComputeUsagePercent converts used bytes into a share of a GB quota, capped at 100.
func ComputeUsagePercent(usedBytes, limitGB float64) float64 {
	usedGB := usedBytes / GB
	if limitGB <= 0 {
		if usedGB > 0 {
			return 100
		}
		return 0
	}
	return math.Min(usedGB/limitGB*100, 100)
}

// ComputeProgressFill quantizes a percentage into boxCount cells.
// A trailing half cell is shown when the fractional part is within (0.1, 0.9).
func ComputeProgressFill(percent float64, boxCount int) models.ProgressFill {
	if boxCount <= 0 || math.IsNaN(percent) {
		return models.ProgressFill{}
	}
	percent = math.Max(0, math.Min(percent, 100))

	usedBoxes := percent / 100 * float64(boxCount)
	fullBoxes := int(math.Floor(usedBoxes))
	remainder := usedBoxes - float64(fullBoxes)
	if fullBoxes > boxCount {
		fullBoxes = boxCount
	}

	return models.ProgressFill{
		FullBoxes:  fullBoxes,
		HalfFilled: remainder > 0.1 && remainder < 0.9 && fullBoxes < boxCount,
	}
}

// formatFixed rounds half away from zero before formatting, like toFixed.
func formatFixed(value float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	return strconv.FormatFloat(math.Round(value*scale)/scale, 'f', decimals, 64)
}
