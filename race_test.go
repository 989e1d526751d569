//go:build race

package fixedblock

const raceEnabled = true
