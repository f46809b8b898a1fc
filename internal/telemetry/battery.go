package telemetry

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// readBattery inspects the power supply class for the first battery. A
// machine without one (or an unreadable sysfs) reports Present=false, which
// feature extraction treats as plugged-in.
func readBattery(sysRoot string) BatteryStatus {
	entries, err := os.ReadDir(sysRoot)
	if err != nil {
		return BatteryStatus{SecondsLeft: -1}
	}

	for _, entry := range entries {
		dir := filepath.Join(sysRoot, entry.Name())
		if kind, err := readSysValue(dir, "type"); err != nil || kind != "Battery" {
			continue
		}

		status := BatteryStatus{Present: true, SecondsLeft: -1}

		if capacity, err := readSysValue(dir, "capacity"); err == nil {
			if pct, err := strconv.ParseFloat(capacity, 64); err == nil {
				status.Percent = pct
			}
		}

		state, _ := readSysValue(dir, "status")
		status.Charging = state == "Charging" || state == "Full"

		if !status.Charging {
			status.SecondsLeft = estimateSecondsLeft(dir)
		}

		return status
	}

	return BatteryStatus{SecondsLeft: -1}
}

// estimateSecondsLeft derives a runtime estimate from the instantaneous
// drain rate. Returns -1 when the sysfs entries needed are absent.
func estimateSecondsLeft(dir string) int64 {
	energy, err1 := readSysValue(dir, "energy_now")
	power, err2 := readSysValue(dir, "power_now")
	if err1 != nil || err2 != nil {
		return -1
	}

	energyNow, err1 := strconv.ParseFloat(energy, 64)
	powerNow, err2 := strconv.ParseFloat(power, 64)
	if err1 != nil || err2 != nil || powerNow <= 0 {
		return -1
	}

	return int64(energyNow / powerNow * 3600)
}

func readSysValue(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
