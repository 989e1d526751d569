//go:build !race

package fixedblock

const raceEnabled = false
